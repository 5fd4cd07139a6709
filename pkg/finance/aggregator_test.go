package finance

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jcconstruction/tracker/models"
)

func day(s string) models.JSONTime {
	t, _ := time.Parse("2006-01-02", s)
	return models.JSONTime(t)
}

func TestJobActuals(t *testing.T) {
	jobA := uuid.New()
	jobB := uuid.New()

	entries := []models.TimeEntry{
		{JobID: jobA, Contractor: "Mike", DurationHours: 4},
		{JobID: jobB, Contractor: "Mike", DurationHours: 8},
		{JobID: jobA, Contractor: "Dave", DurationHours: 3.5},
	}
	materials := []models.MaterialUsage{
		{JobID: jobA, Material: "Lumber", Amount: 120},
		{JobID: jobB, Material: "Lumber", Amount: 999},
	}
	receipts := []models.Receipt{
		{JobID: jobA, Amount: 30.5},
	}

	a := JobActuals(jobA, entries, materials, receipts)
	if a.ActualHours != 7.5 {
		t.Errorf("ActualHours = %v, want 7.5", a.ActualHours)
	}
	if a.ActualMaterialCost != 150.5 {
		t.Errorf("ActualMaterialCost = %v, want 150.5", a.ActualMaterialCost)
	}
}

func TestJobActualsNoData(t *testing.T) {
	a := JobActuals(uuid.New(), nil, nil, nil)
	if a.ActualHours != 0 || a.ActualMaterialCost != 0 {
		t.Errorf("expected zeros for empty tables, got %+v", a)
	}
}

func TestComputeWIPTotalsOnlyInProgress(t *testing.T) {
	wip := models.Job{ID: uuid.New(), Status: models.JobStatusInProgress, EstimatedHours: 40, EstimatedMaterialCost: 1000}
	done := models.Job{ID: uuid.New(), Status: models.JobStatusCompleted, EstimatedHours: 100, EstimatedMaterialCost: 5000}
	jobs := []models.Job{wip, done}

	entries := []models.TimeEntry{
		{JobID: wip.ID, DurationHours: 10},
		{JobID: done.ID, DurationHours: 50},
	}
	materials := []models.MaterialUsage{
		{JobID: wip.ID, Amount: 200},
		{JobID: done.ID, Amount: 4000},
	}
	receipts := []models.Receipt{
		{JobID: wip.ID, Amount: 50},
	}
	payments := []models.DownPayment{
		{JobID: wip.ID, Amount: 500},
		{JobID: done.ID, Amount: 2500},
	}

	got := ComputeWIPTotals(jobs, entries, materials, receipts, payments)
	want := WIPTotals{
		JobCount:              1,
		EstimatedHours:        40,
		ActualHours:           10,
		EstimatedMaterialCost: 1000,
		ActualMaterialCost:    250,
		DownPaymentTotal:      500,
	}
	if got != want {
		t.Errorf("ComputeWIPTotals = %+v, want %+v", got, want)
	}
}

func TestJobPerformanceZeroDefaults(t *testing.T) {
	job := models.Job{ID: uuid.New(), Name: "Deck", Client: "Smith", EstimatedHours: 20}
	rows := JobPerformance([]models.Job{job}, nil, nil, nil)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	r := rows[0]
	if r.ActualHours != 0 || r.ActualMaterialCost != 0 {
		t.Errorf("actuals should default to 0, got %+v", r)
	}
	if math.IsNaN(r.ActualHours) || math.IsNaN(r.ActualMaterialCost) {
		t.Error("actuals must never be NaN")
	}
}

func TestFilterJobs(t *testing.T) {
	jobs := []models.Job{
		{Name: "Deck ", Client: " Smith"},
		{Name: "Roof", Client: "Jones"},
	}
	tests := []struct {
		name    string
		client  string
		jobName string
		want    int
	}{
		{"no filters", "", "", 2},
		{"client match trims whitespace", "Smith", "", 1},
		{"job name match trims whitespace", "", "Deck", 1},
		{"both filters", "Jones", "Roof", 1},
		{"unresolved name yields empty", "", "Garage", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterJobs(jobs, tt.client, tt.jobName)
			if len(got) != tt.want {
				t.Errorf("FilterJobs(%q, %q) returned %d jobs, want %d", tt.client, tt.jobName, len(got), tt.want)
			}
		})
	}
}

func TestDuration(t *testing.T) {
	tests := []struct {
		start, end string
		want       float64
		wantErr    bool
	}{
		{"09:00", "17:00", 8, false},
		{"08:30", "12:45", 4.25, false},
		{"17:00", "09:00", 0, true},
		{"09:00", "09:00", 0, true},
		{"bad", "10:00", 0, true},
		{"09:00", "", 0, true},
	}
	for _, tt := range tests {
		got, err := Duration(tt.start, tt.end)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Duration(%q, %q) expected error", tt.start, tt.end)
			}
			continue
		}
		if err != nil {
			t.Errorf("Duration(%q, %q) unexpected error: %v", tt.start, tt.end, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Duration(%q, %q) = %v, want %v", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestAvgDailyHoursByContractor(t *testing.T) {
	entries := []models.TimeEntry{
		{Contractor: "Mike", Date: day("2025-06-01"), DurationHours: 4},
		{Contractor: "Mike", Date: day("2025-06-01"), DurationHours: 4},
		{Contractor: "Mike", Date: day("2025-06-02"), DurationHours: 2},
		{Contractor: "Dave", Date: day("2025-06-01"), DurationHours: 6},
	}
	got := AvgDailyHoursByContractor(entries)
	if len(got) != 2 {
		t.Fatalf("expected 2 contractors, got %d", len(got))
	}
	// Dave: 6/day over 1 day. Mike: (8+2)/2 = 5.
	if got[0].Contractor != "Dave" || got[0].AvgDailyHours != 6 {
		t.Errorf("first row = %+v, want Dave at 6", got[0])
	}
	if got[1].Contractor != "Mike" || got[1].AvgDailyHours != 5 {
		t.Errorf("second row = %+v, want Mike at 5", got[1])
	}
}

func TestTopMaterialsByCost(t *testing.T) {
	materials := []models.MaterialUsage{
		{Material: "Lumber", Amount: 100},
		{Material: "Lumber", Amount: 50},
		{Material: "Concrete", Amount: 200},
		{Material: "Nails", Amount: 0},
	}
	got := TopMaterialsByCost(materials, 10)
	if len(got) != 2 {
		t.Fatalf("zero-cost materials should be dropped, got %d rows", len(got))
	}
	if got[0].Material != "Concrete" || got[0].Total != 200 {
		t.Errorf("first row = %+v, want Concrete at 200", got[0])
	}
	if got[1].Material != "Lumber" || got[1].Total != 150 {
		t.Errorf("second row = %+v, want Lumber at 150", got[1])
	}

	limited := TopMaterialsByCost(materials, 1)
	if len(limited) != 1 || limited[0].Material != "Concrete" {
		t.Errorf("limit 1 should keep only the top entry, got %+v", limited)
	}
}
