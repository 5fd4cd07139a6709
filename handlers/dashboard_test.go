package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jcconstruction/tracker/models"
	"github.com/jcconstruction/tracker/pkg/finance"
)

func TestGetWIPDashboard(t *testing.T) {
	setupTestDB(t)
	wip := models.Job{Name: "Deck", Client: "Smith", Status: models.JobStatusInProgress, EstimatedHours: 40, EstimatedMaterialCost: 1000}
	done := models.Job{Name: "Roof", Client: "Smith", Status: models.JobStatusCompleted, EstimatedHours: 99}
	mustCreate(t, &wip)
	mustCreate(t, &done)
	mustCreate(t, &models.TimeEntry{JobID: wip.ID, Contractor: "Mike", StartTime: "09:00", EndTime: "17:00", DurationHours: 8})
	mustCreate(t, &models.MaterialUsage{JobID: wip.ID, Contractor: "Mike", Material: "Lumber", Amount: 250})
	mustCreate(t, &models.DownPayment{JobID: wip.ID, Amount: 500, Method: models.PaymentMethodCash})

	req := asRole(httptest.NewRequest("GET", "/api/v1/dashboard/wip", nil), models.RoleManager)
	w := httptest.NewRecorder()
	GetWIPDashboard(w, req)

	var totals finance.WIPTotals
	if err := json.Unmarshal(w.Body.Bytes(), &totals); err != nil {
		t.Fatal(err)
	}
	want := finance.WIPTotals{JobCount: 1, EstimatedHours: 40, ActualHours: 8, EstimatedMaterialCost: 1000, ActualMaterialCost: 250, DownPaymentTotal: 500}
	if totals != want {
		t.Errorf("WIP totals = %+v, want %+v", totals, want)
	}
}

func TestGetDeadlines(t *testing.T) {
	setupTestDB(t)
	soon := models.JSONTime(time.Now().UTC().Add(48 * time.Hour))
	nextWeek := models.JSONTime(time.Now().UTC().Add(6 * 24 * time.Hour))
	farOut := models.JSONTime(time.Now().UTC().Add(30 * 24 * time.Hour))

	mustCreate(t, &models.Job{Name: "Critical", Client: "Smith", Status: models.JobStatusInProgress, EndDate: &soon})
	mustCreate(t, &models.Job{Name: "Warning", Client: "Smith", Status: models.JobStatusInProgress, EndDate: &nextWeek})
	mustCreate(t, &models.Job{Name: "Fine", Client: "Smith", Status: models.JobStatusInProgress, EndDate: &farOut})
	mustCreate(t, &models.Job{Name: "Done", Client: "Smith", Status: models.JobStatusCompleted, EndDate: &soon})
	mustCreate(t, &models.Job{Name: "Open-ended", Client: "Smith", Status: models.JobStatusInProgress})

	req := asRole(httptest.NewRequest("GET", "/api/v1/dashboard/deadlines", nil), models.RoleManager)
	w := httptest.NewRecorder()
	GetDeadlines(w, req)

	var rows []deadlineRow
	if err := json.Unmarshal(w.Body.Bytes(), &rows); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 flagged jobs, got %d: %+v", len(rows), rows)
	}
	severities := map[string]string{}
	for _, r := range rows {
		severities[r.JobName] = r.Severity
	}
	if severities["Critical"] != "critical" {
		t.Errorf("Critical severity = %q", severities["Critical"])
	}
	if severities["Warning"] != "warning" {
		t.Errorf("Warning severity = %q", severities["Warning"])
	}
}
