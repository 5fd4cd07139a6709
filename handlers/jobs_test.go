package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"github.com/jcconstruction/tracker/config"
	"github.com/jcconstruction/tracker/models"
)

func TestCreateJob(t *testing.T) {
	setupTestDB(t)

	body := `{"name":"Garage Build","client":"Smith","estimatedHours":40,"estimatedMaterialCost":2500}`
	req := asRole(httptest.NewRequest("POST", "/api/v1/jobs", strings.NewReader(body)), models.RoleAdmin)
	w := httptest.NewRecorder()
	CreateJob(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var job models.Job
	if err := json.Unmarshal(w.Body.Bytes(), &job); err != nil {
		t.Fatal(err)
	}
	if job.Status != models.JobStatusPlanning {
		t.Errorf("default status = %q, want Planning", job.Status)
	}
}

func TestCreateJobValidation(t *testing.T) {
	setupTestDB(t)
	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"client":"Smith"}`},
		{"missing client", `{"name":"Deck"}`},
		{"bad status", `{"name":"Deck","client":"Smith","status":"Paused"}`},
		{"negative estimate", `{"name":"Deck","client":"Smith","estimatedHours":-1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := asRole(httptest.NewRequest("POST", "/api/v1/jobs", strings.NewReader(tt.body)), models.RoleAdmin)
			w := httptest.NewRecorder()
			CreateJob(w, req)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
			var count int64
			config.DB.Model(&models.Job{}).Count(&count)
			if count != 0 {
				t.Error("invalid input must not write a row")
			}
		})
	}
}

func TestUpdateJobKeepsRequiredFields(t *testing.T) {
	setupTestDB(t)
	job := models.Job{Name: "Deck", Client: "Smith", Status: models.JobStatusInProgress}
	mustCreate(t, &job)

	tests := []struct {
		name string
		body string
	}{
		{"blanked name", `{"name":"","client":"Smith","status":"In Progress"}`},
		{"blanked client", `{"name":"Deck","client":"  ","status":"In Progress"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := asRole(httptest.NewRequest("PUT", "/api/v1/jobs/"+job.ID.String(), strings.NewReader(tt.body)), models.RoleAdmin)
			req = mux.SetURLVars(req, map[string]string{"id": job.ID.String()})
			w := httptest.NewRecorder()
			UpdateJob(w, req)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
			var got models.Job
			config.DB.First(&got, "id = ?", job.ID)
			if got.Name != "Deck" || got.Client != "Smith" {
				t.Errorf("row changed to name=%q client=%q", got.Name, got.Client)
			}
		})
	}
}

func TestGetAllJobsClientScope(t *testing.T) {
	setupTestDB(t)
	mustCreate(t, &models.Job{Name: "Deck", Client: "Smith"})
	mustCreate(t, &models.Job{Name: "Roof", Client: "Jones"})

	req := asClientViewer(httptest.NewRequest("GET", "/api/v1/jobs", nil), "Smith")
	w := httptest.NewRecorder()
	GetAllJobs(w, req)

	var resp struct {
		Total int64        `json:"total"`
		Data  []models.Job `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 1 || len(resp.Data) != 1 || resp.Data[0].Client != "Smith" {
		t.Errorf("client viewer should only see their jobs, got %+v", resp)
	}
}

func TestGetJobScopedNotFound(t *testing.T) {
	setupTestDB(t)
	job := models.Job{Name: "Roof", Client: "Jones"}
	mustCreate(t, &job)

	req := asClientViewer(httptest.NewRequest("GET", "/api/v1/jobs/"+job.ID.String(), nil), "Smith")
	req = mux.SetURLVars(req, map[string]string{"id": job.ID.String()})
	w := httptest.NewRecorder()
	GetJob(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("other clients' jobs must 404, got %d", w.Code)
	}
}

func TestDeleteJobCascades(t *testing.T) {
	setupTestDB(t)
	keep := models.Job{Name: "Keep", Client: "Jones"}
	doomed := models.Job{Name: "Doomed", Client: "Smith"}
	mustCreate(t, &keep)
	mustCreate(t, &doomed)
	mustCreate(t, &models.TimeEntry{JobID: doomed.ID, Contractor: "Mike", StartTime: "09:00", EndTime: "17:00", DurationHours: 8})
	mustCreate(t, &models.TimeEntry{JobID: keep.ID, Contractor: "Mike", StartTime: "09:00", EndTime: "12:00", DurationHours: 3})
	mustCreate(t, &models.MaterialUsage{JobID: doomed.ID, Contractor: "Mike", Material: "Lumber", Amount: 100})
	mustCreate(t, &models.Receipt{JobID: doomed.ID, Contractor: "Mike", Payor: "Mike", FileName: "r.jpg", FileLink: "x"})
	mustCreate(t, &models.DownPayment{JobID: doomed.ID, Amount: 500, Method: models.PaymentMethodCheck})
	mustCreate(t, &models.JobFile{JobID: doomed.ID, FileName: "plan.pdf", FileLink: "x", Category: models.FileCategoryPlan, UploadedBy: "tester"})

	req := asRole(httptest.NewRequest("DELETE", "/api/v1/jobs/"+doomed.ID.String(), nil), models.RoleAdmin)
	req = mux.SetURLVars(req, map[string]string{"id": doomed.ID.String()})
	w := httptest.NewRecorder()
	DeleteJob(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var jobCount, entryCount, materialCount, receiptCount, paymentCount, fileCount int64
	config.DB.Model(&models.Job{}).Count(&jobCount)
	config.DB.Model(&models.TimeEntry{}).Count(&entryCount)
	config.DB.Model(&models.MaterialUsage{}).Count(&materialCount)
	config.DB.Model(&models.Receipt{}).Count(&receiptCount)
	config.DB.Model(&models.DownPayment{}).Count(&paymentCount)
	config.DB.Model(&models.JobFile{}).Count(&fileCount)

	if jobCount != 1 {
		t.Errorf("job count = %d, want 1 (other job kept)", jobCount)
	}
	if entryCount != 1 {
		t.Errorf("entry count = %d, want 1 (only the deleted job's entries removed)", entryCount)
	}
	if materialCount+receiptCount+paymentCount+fileCount != 0 {
		t.Error("all child rows of the deleted job should be gone")
	}
}
