// Package finance derives job-level time and cost metrics by joining the
// child tables on the job ID. Every function is pure: it never touches
// the database, never mutates its inputs, and returns zeroed results for
// empty tables.
package finance

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jcconstruction/tracker/models"
)

// Actuals are the recorded totals for a single job.
type Actuals struct {
	ActualHours        float64 `json:"actualHours"`
	ActualMaterialCost float64 `json:"actualMaterialCost"`
}

// JobActuals sums recorded hours and material spend for one job. Material
// cost is material-usage amounts plus receipt amounts. Jobs with no child
// rows yield zeros.
func JobActuals(jobID uuid.UUID, entries []models.TimeEntry, materials []models.MaterialUsage, receipts []models.Receipt) Actuals {
	var a Actuals
	for _, e := range entries {
		if e.JobID == jobID {
			a.ActualHours += e.DurationHours
		}
	}
	for _, m := range materials {
		if m.JobID == jobID {
			a.ActualMaterialCost += m.Amount
		}
	}
	for _, r := range receipts {
		if r.JobID == jobID {
			a.ActualMaterialCost += r.Amount
		}
	}
	return a
}

// WIPTotals are the dashboard KPI tiles over all In Progress jobs.
type WIPTotals struct {
	JobCount              int     `json:"jobCount"`
	EstimatedHours        float64 `json:"estimatedHours"`
	ActualHours           float64 `json:"actualHours"`
	EstimatedMaterialCost float64 `json:"estimatedMaterialCost"`
	ActualMaterialCost    float64 `json:"actualMaterialCost"`
	DownPaymentTotal      float64 `json:"downPaymentTotal"`
}

// ComputeWIPTotals restricts jobs to StatusInProgress and sums estimates
// and actuals over that subset. Jobs in any other status contribute
// nothing.
func ComputeWIPTotals(jobs []models.Job, entries []models.TimeEntry, materials []models.MaterialUsage, receipts []models.Receipt, downPayments []models.DownPayment) WIPTotals {
	var t WIPTotals
	wip := make(map[uuid.UUID]bool)
	for _, j := range jobs {
		if j.Status != models.JobStatusInProgress {
			continue
		}
		wip[j.ID] = true
		t.JobCount++
		t.EstimatedHours += j.EstimatedHours
		t.EstimatedMaterialCost += j.EstimatedMaterialCost
	}
	for _, e := range entries {
		if wip[e.JobID] {
			t.ActualHours += e.DurationHours
		}
	}
	for _, m := range materials {
		if wip[m.JobID] {
			t.ActualMaterialCost += m.Amount
		}
	}
	for _, r := range receipts {
		if wip[r.JobID] {
			t.ActualMaterialCost += r.Amount
		}
	}
	for _, d := range downPayments {
		if wip[d.JobID] {
			t.DownPaymentTotal += d.Amount
		}
	}
	return t
}

// PerformanceRow is one job's estimate-vs-actual comparison.
type PerformanceRow struct {
	JobID                 uuid.UUID `json:"jobId"`
	JobName               string    `json:"jobName"`
	Client                string    `json:"client"`
	EstimatedHours        float64   `json:"estimatedHours"`
	ActualHours           float64   `json:"actualHours"`
	EstimatedMaterialCost float64   `json:"estimatedMaterialCost"`
	ActualMaterialCost    float64   `json:"actualMaterialCost"`
}

// JobPerformance produces an estimate-vs-actual row for every job in
// scope, in input order. Jobs without actuals report 0, never NaN.
func JobPerformance(jobs []models.Job, entries []models.TimeEntry, materials []models.MaterialUsage, receipts []models.Receipt) []PerformanceRow {
	rows := make([]PerformanceRow, 0, len(jobs))
	for _, j := range jobs {
		a := JobActuals(j.ID, entries, materials, receipts)
		rows = append(rows, PerformanceRow{
			JobID:                 j.ID,
			JobName:               j.Name,
			Client:                j.Client,
			EstimatedHours:        j.EstimatedHours,
			ActualHours:           a.ActualHours,
			EstimatedMaterialCost: j.EstimatedMaterialCost,
			ActualMaterialCost:    a.ActualMaterialCost,
		})
	}
	return rows
}

// FilterJobs narrows jobs to an exact, whitespace-trimmed client and/or
// job-name match. Empty filter values match everything; a name that
// resolves to no job yields an empty slice, not an error.
func FilterJobs(jobs []models.Job, client, jobName string) []models.Job {
	client = strings.TrimSpace(client)
	jobName = strings.TrimSpace(jobName)
	out := make([]models.Job, 0, len(jobs))
	for _, j := range jobs {
		if client != "" && strings.TrimSpace(j.Client) != client {
			continue
		}
		if jobName != "" && strings.TrimSpace(j.Name) != jobName {
			continue
		}
		out = append(out, j)
	}
	return out
}

// Duration returns the hours between two "15:04" clock times on the same
// day. The result must be strictly positive; end at or before start is an
// error so a zero or negative entry can never be recorded.
func Duration(start, end string) (float64, error) {
	s, err := time.Parse("15:04", start)
	if err != nil {
		return 0, fmt.Errorf("invalid start time %q", start)
	}
	e, err := time.Parse("15:04", end)
	if err != nil {
		return 0, fmt.Errorf("invalid end time %q", end)
	}
	d := e.Sub(s).Hours()
	if d <= 0 {
		return 0, fmt.Errorf("end time must be after start time")
	}
	return d, nil
}

// ContractorDaily is a contractor's average worked hours per active day.
type ContractorDaily struct {
	Contractor    string  `json:"contractor"`
	AvgDailyHours float64 `json:"avgDailyHours"`
}

// AvgDailyHoursByContractor sums hours per contractor per calendar day,
// then averages those daily sums per contractor. Sorted by average
// descending, ties by name.
func AvgDailyHoursByContractor(entries []models.TimeEntry) []ContractorDaily {
	type key struct {
		contractor string
		day        string
	}
	daily := make(map[key]float64)
	for _, e := range entries {
		k := key{e.Contractor, e.Date.Time().Format("2006-01-02")}
		daily[k] += e.DurationHours
	}
	sums := make(map[string]float64)
	days := make(map[string]int)
	for k, hours := range daily {
		sums[k.contractor] += hours
		days[k.contractor]++
	}
	out := make([]ContractorDaily, 0, len(sums))
	for c, total := range sums {
		out = append(out, ContractorDaily{Contractor: c, AvgDailyHours: total / float64(days[c])})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AvgDailyHours != out[j].AvgDailyHours {
			return out[i].AvgDailyHours > out[j].AvgDailyHours
		}
		return out[i].Contractor < out[j].Contractor
	})
	return out
}

// MaterialCost is the total recorded spend for one material name.
type MaterialCost struct {
	Material string  `json:"material"`
	Total    float64 `json:"total"`
}

// TopMaterialsByCost groups material-usage rows by material name and
// returns up to limit entries with positive totals, highest first.
func TopMaterialsByCost(materials []models.MaterialUsage, limit int) []MaterialCost {
	totals := make(map[string]float64)
	for _, m := range materials {
		totals[m.Material] += m.Amount
	}
	out := make([]MaterialCost, 0, len(totals))
	for name, total := range totals {
		if total > 0 {
			out = append(out, MaterialCost{Material: name, Total: total})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Material < out[j].Material
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
