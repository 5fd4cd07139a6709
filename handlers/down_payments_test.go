package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jcconstruction/tracker/config"
	"github.com/jcconstruction/tracker/models"
)

func TestCreateDownPayment(t *testing.T) {
	setupTestDB(t)
	job := models.Job{Name: "Deck", Client: "Smith"}
	mustCreate(t, &job)

	body := fmt.Sprintf(`{"jobId":%q,"dateReceived":"2025-06-01","amount":500,"method":"Check","notes":"deposit"}`, job.ID)
	req := asRole(httptest.NewRequest("POST", "/api/v1/down-payments", strings.NewReader(body)), models.RoleManager)
	w := httptest.NewRecorder()
	CreateDownPayment(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestCreateDownPaymentValidation(t *testing.T) {
	setupTestDB(t)
	job := models.Job{Name: "Deck", Client: "Smith"}
	mustCreate(t, &job)

	tests := []struct {
		name string
		body string
	}{
		{"zero amount", fmt.Sprintf(`{"jobId":%q,"dateReceived":"2025-06-01","amount":0,"method":"Check"}`, job.ID)},
		{"negative amount", fmt.Sprintf(`{"jobId":%q,"dateReceived":"2025-06-01","amount":-10,"method":"Check"}`, job.ID)},
		{"unknown method", fmt.Sprintf(`{"jobId":%q,"dateReceived":"2025-06-01","amount":100,"method":"IOU"}`, job.ID)},
		{"missing date", fmt.Sprintf(`{"jobId":%q,"amount":100,"method":"Cash"}`, job.ID)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := asRole(httptest.NewRequest("POST", "/api/v1/down-payments", strings.NewReader(tt.body)), models.RoleManager)
			w := httptest.NewRecorder()
			CreateDownPayment(w, req)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
	var count int64
	config.DB.Model(&models.DownPayment{}).Count(&count)
	if count != 0 {
		t.Error("rejected payments must not be stored")
	}
}
