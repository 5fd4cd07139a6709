package handlers

import (
	"encoding/json"
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jcconstruction/tracker/config"
	"github.com/jcconstruction/tracker/middleware"
	"github.com/jcconstruction/tracker/models"
	"github.com/jcconstruction/tracker/pkg/finance"
)

// loadScope pulls the jobs visible to the caller plus every child table
// restricted to those jobs. The aggregations run in memory over the
// snapshot, so a request sees one consistent view.
func loadScope(r *http.Request) ([]models.Job, []models.TimeEntry, []models.MaterialUsage, []models.Receipt, []models.DownPayment, error) {
	jobsQ := config.DB.Model(&models.Job{})
	if scope := middleware.ClientScope(r); scope != "" {
		jobsQ = jobsQ.Where("client = ?", scope)
	}
	var jobs []models.Job
	if err := jobsQ.Find(&jobs).Error; err != nil {
		return nil, nil, nil, nil, nil, err
	}
	ids := make([]uuid.UUID, 0, len(jobs))
	for _, j := range jobs {
		ids = append(ids, j.ID)
	}

	var (
		entries   []models.TimeEntry
		materials []models.MaterialUsage
		receipts  []models.Receipt
		payments  []models.DownPayment
	)
	if len(ids) > 0 {
		if err := config.DB.Where("job_id IN ?", ids).Find(&entries).Error; err != nil {
			return nil, nil, nil, nil, nil, err
		}
		if err := config.DB.Where("job_id IN ?", ids).Find(&materials).Error; err != nil {
			return nil, nil, nil, nil, nil, err
		}
		if err := config.DB.Where("job_id IN ?", ids).Find(&receipts).Error; err != nil {
			return nil, nil, nil, nil, nil, err
		}
		if err := config.DB.Where("job_id IN ?", ids).Find(&payments).Error; err != nil {
			return nil, nil, nil, nil, nil, err
		}
	}
	return jobs, entries, materials, receipts, payments, nil
}

// GetWIPDashboard serves the work-in-progress KPI tiles.
func GetWIPDashboard(w http.ResponseWriter, r *http.Request) {
	jobs, entries, materials, receipts, payments, err := loadScope(r)
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	totals := finance.ComputeWIPTotals(jobs, entries, materials, receipts, payments)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(totals)
}

type deadlineRow struct {
	JobID    uuid.UUID `json:"jobId"`
	JobName  string    `json:"jobName"`
	Client   string    `json:"client"`
	EndDate  string    `json:"endDate"`
	DaysLeft int       `json:"daysLeft"`
	Severity string    `json:"severity"`
}

// GetDeadlines lists In Progress jobs whose end date is within seven
// days. Three days or fewer (including overdue) is critical, the rest
// are warnings.
func GetDeadlines(w http.ResponseWriter, r *http.Request) {
	q := config.DB.Model(&models.Job{}).Where("status = ?", models.JobStatusInProgress)
	if scope := middleware.ClientScope(r); scope != "" {
		q = q.Where("client = ?", scope)
	}
	var jobs []models.Job
	if err := q.Find(&jobs).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	rows := make([]deadlineRow, 0)
	for _, j := range jobs {
		if j.EndDate == nil || j.EndDate.Time().IsZero() {
			continue
		}
		end := j.EndDate.Time().Truncate(24 * time.Hour)
		daysLeft := int(math.Round(end.Sub(today).Hours() / 24))
		if daysLeft > 7 {
			continue
		}
		severity := "warning"
		if daysLeft <= 3 {
			severity = "critical"
		}
		rows = append(rows, deadlineRow{
			JobID:    j.ID,
			JobName:  j.Name,
			Client:   j.Client,
			EndDate:  end.Format("2006-01-02"),
			DaysLeft: daysLeft,
			Severity: severity,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rows)
}
