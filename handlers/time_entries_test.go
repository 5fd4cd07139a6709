package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/jcconstruction/tracker/config"
	"github.com/jcconstruction/tracker/models"
)

func TestCreateTimeEntryComputesDuration(t *testing.T) {
	setupTestDB(t)
	job := models.Job{Name: "Deck", Client: "Smith"}
	mustCreate(t, &job)

	body := fmt.Sprintf(`{"jobId":%q,"contractor":"Mike","date":"2025-06-02","startTime":"09:00","endTime":"17:30","durationHours":999}`, job.ID)
	req := asRole(httptest.NewRequest("POST", "/api/v1/time-entries", strings.NewReader(body)), models.RoleContractor)
	w := httptest.NewRecorder()
	CreateTimeEntry(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var entry models.TimeEntry
	if err := json.Unmarshal(w.Body.Bytes(), &entry); err != nil {
		t.Fatal(err)
	}
	if entry.DurationHours != 8.5 {
		t.Errorf("duration = %v, want server-computed 8.5 (client value ignored)", entry.DurationHours)
	}
}

func TestCreateTimeEntryRejectsNonPositiveDuration(t *testing.T) {
	setupTestDB(t)
	job := models.Job{Name: "Deck", Client: "Smith"}
	mustCreate(t, &job)

	for _, times := range [][2]string{{"17:00", "09:00"}, {"09:00", "09:00"}} {
		body := fmt.Sprintf(`{"jobId":%q,"contractor":"Mike","date":"2025-06-02","startTime":%q,"endTime":%q}`, job.ID, times[0], times[1])
		req := asRole(httptest.NewRequest("POST", "/api/v1/time-entries", strings.NewReader(body)), models.RoleContractor)
		w := httptest.NewRecorder()
		CreateTimeEntry(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("times %v: status = %d, want 400", times, w.Code)
		}
	}
	var count int64
	config.DB.Model(&models.TimeEntry{}).Count(&count)
	if count != 0 {
		t.Error("rejected entries must not be stored")
	}
}

func TestCreateTimeEntryUnknownJob(t *testing.T) {
	setupTestDB(t)
	body := fmt.Sprintf(`{"jobId":%q,"contractor":"Mike","date":"2025-06-02","startTime":"09:00","endTime":"10:00"}`, uuid.New())
	req := asRole(httptest.NewRequest("POST", "/api/v1/time-entries", strings.NewReader(body)), models.RoleContractor)
	w := httptest.NewRecorder()
	CreateTimeEntry(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for unknown job", w.Code)
	}
}

func TestGetAllTimeEntriesResolvesJobNames(t *testing.T) {
	setupTestDB(t)
	job := models.Job{Name: "Deck", Client: "Smith"}
	mustCreate(t, &job)
	mustCreate(t, &models.TimeEntry{JobID: job.ID, Contractor: "Mike", StartTime: "09:00", EndTime: "10:00", DurationHours: 1})

	req := asRole(httptest.NewRequest("GET", "/api/v1/time-entries", nil), models.RoleManager)
	w := httptest.NewRecorder()
	GetAllTimeEntries(w, req)

	var rows []struct {
		JobName string `json:"jobName"`
		Client  string `json:"client"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &rows); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].JobName != "Deck" || rows[0].Client != "Smith" {
		t.Errorf("list should carry resolved job names, got %+v", rows)
	}
}

func TestGetAllTimeEntriesClientScope(t *testing.T) {
	setupTestDB(t)
	mine := models.Job{Name: "Deck", Client: "Smith"}
	other := models.Job{Name: "Roof", Client: "Jones"}
	mustCreate(t, &mine)
	mustCreate(t, &other)
	mustCreate(t, &models.TimeEntry{JobID: mine.ID, Contractor: "Mike", StartTime: "09:00", EndTime: "10:00", DurationHours: 1})
	mustCreate(t, &models.TimeEntry{JobID: other.ID, Contractor: "Mike", StartTime: "09:00", EndTime: "10:00", DurationHours: 1})

	req := asClientViewer(httptest.NewRequest("GET", "/api/v1/time-entries", nil), "Smith")
	w := httptest.NewRecorder()
	GetAllTimeEntries(w, req)

	var rows []models.TimeEntry
	if err := json.Unmarshal(w.Body.Bytes(), &rows); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].JobID != mine.ID {
		t.Errorf("client viewer should only see entries on their jobs, got %d rows", len(rows))
	}
}
