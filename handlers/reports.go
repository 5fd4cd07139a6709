package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/jcconstruction/tracker/config"
	"github.com/jcconstruction/tracker/models"
	"github.com/jcconstruction/tracker/pkg/finance"
)

// reportColumn pairs a row key with its display label so the export
// writers can lay out columns without reflection.
type reportColumn struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

type reportResult struct {
	Name    string           `json:"name"`
	Headers []reportColumn   `json:"headers"`
	Rows    []map[string]any `json:"rows"`
}

// GetPerformanceReport compares estimates against actuals per job.
// ?client= and ?job= narrow the job set by exact trimmed match.
func GetPerformanceReport(w http.ResponseWriter, r *http.Request) {
	result, err := buildPerformanceReport(r)
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func buildPerformanceReport(r *http.Request) (*reportResult, error) {
	jobs, entries, materials, receipts, _, err := loadScope(r)
	if err != nil {
		return nil, err
	}
	jobs = finance.FilterJobs(jobs, r.URL.Query().Get("client"), r.URL.Query().Get("job"))
	perf := finance.JobPerformance(jobs, entries, materials, receipts)

	rows := make([]map[string]any, len(perf))
	for i, p := range perf {
		rows[i] = map[string]any{
			"jobName":               p.JobName,
			"client":                p.Client,
			"estimatedHours":        p.EstimatedHours,
			"actualHours":           p.ActualHours,
			"estimatedMaterialCost": p.EstimatedMaterialCost,
			"actualMaterialCost":    p.ActualMaterialCost,
		}
	}
	return &reportResult{
		Name: "Job Performance",
		Headers: []reportColumn{
			{"jobName", "Job Name"},
			{"client", "Client"},
			{"estimatedHours", "Estimated Hours"},
			{"actualHours", "Actual Hours"},
			{"estimatedMaterialCost", "Estimated Material Cost"},
			{"actualMaterialCost", "Actual Material Cost"},
		},
		Rows: rows,
	}, nil
}

// GetContractorReport averages each contractor's worked hours per
// active day.
func GetContractorReport(w http.ResponseWriter, r *http.Request) {
	result, err := buildContractorReport(r)
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func buildContractorReport(r *http.Request) (*reportResult, error) {
	q := config.DB.Model(&models.TimeEntry{})
	scoped, err := scopedJobIDs(r)
	if err != nil {
		return nil, err
	}
	if scoped != nil {
		q = q.Where("job_id IN ?", scoped)
	}
	var entries []models.TimeEntry
	if err := q.Find(&entries).Error; err != nil {
		return nil, err
	}
	stats := finance.AvgDailyHoursByContractor(entries)

	rows := make([]map[string]any, len(stats))
	for i, s := range stats {
		rows[i] = map[string]any{
			"contractor":    s.Contractor,
			"avgDailyHours": s.AvgDailyHours,
		}
	}
	return &reportResult{
		Name: "Contractor Hours",
		Headers: []reportColumn{
			{"contractor", "Contractor"},
			{"avgDailyHours", "Avg Daily Hours"},
		},
		Rows: rows,
	}, nil
}

// GetMaterialsReport ranks materials by total recorded spend. ?limit=
// caps the list, default 10.
func GetMaterialsReport(w http.ResponseWriter, r *http.Request) {
	result, err := buildMaterialsReport(r)
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func buildMaterialsReport(r *http.Request) (*reportResult, error) {
	limit := 10
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		limit = l
	}
	q := config.DB.Model(&models.MaterialUsage{})
	scoped, err := scopedJobIDs(r)
	if err != nil {
		return nil, err
	}
	if scoped != nil {
		q = q.Where("job_id IN ?", scoped)
	}
	var materials []models.MaterialUsage
	if err := q.Find(&materials).Error; err != nil {
		return nil, err
	}
	top := finance.TopMaterialsByCost(materials, limit)

	rows := make([]map[string]any, len(top))
	for i, m := range top {
		rows[i] = map[string]any{
			"material": m.Material,
			"total":    m.Total,
		}
	}
	return &reportResult{
		Name: "Top Materials by Cost",
		Headers: []reportColumn{
			{"material", "Material"},
			{"total", "Total Cost"},
		},
		Rows: rows,
	}, nil
}

// buildReport dispatches on the report name from the path.
func buildReport(name string, r *http.Request) (*reportResult, error) {
	switch name {
	case "performance":
		return buildPerformanceReport(r)
	case "contractors":
		return buildContractorReport(r)
	case "materials":
		return buildMaterialsReport(r)
	default:
		return nil, fmt.Errorf("unknown report %q", name)
	}
}
