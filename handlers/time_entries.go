package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jcconstruction/tracker/config"
	"github.com/jcconstruction/tracker/models"
	"github.com/jcconstruction/tracker/pkg/finance"
)

type timeEntryRow struct {
	models.TimeEntry
	jobRef
}

func GetAllTimeEntries(w http.ResponseWriter, r *http.Request) {
	q := config.DB.Model(&models.TimeEntry{})
	scoped, err := scopedJobIDs(r)
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if scoped != nil {
		q = q.Where("job_id IN ?", scoped)
	}
	if jobID := strings.TrimSpace(r.URL.Query().Get("jobId")); jobID != "" {
		q = q.Where("job_id = ?", jobID)
	}
	if contractor := strings.TrimSpace(r.URL.Query().Get("contractor")); contractor != "" {
		q = q.Where("contractor = ?", contractor)
	}

	var entries []models.TimeEntry
	if err := q.Order("date DESC").Find(&entries).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	ids := make([]uuid.UUID, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.JobID)
	}
	refs, err := resolveJobRefs(ids)
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	out := make([]timeEntryRow, len(entries))
	for i, e := range entries {
		out[i] = timeEntryRow{TimeEntry: e, jobRef: refs[e.JobID]}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// CreateTimeEntry records a work interval. The duration is always
// computed server-side from the clock times and must come out positive.
func CreateTimeEntry(w http.ResponseWriter, r *http.Request) {
	var entry models.TimeEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if _, ok := requireJob(w, r, entry.JobID); !ok {
		return
	}
	entry.Contractor = strings.TrimSpace(entry.Contractor)
	if entry.Contractor == "" {
		http.Error(w, "contractor is required", http.StatusBadRequest)
		return
	}
	if entry.Date.Time().IsZero() {
		http.Error(w, "date is required", http.StatusBadRequest)
		return
	}
	hours, err := finance.Duration(entry.StartTime, entry.EndTime)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	entry.DurationHours = hours
	if err := config.DB.Create(&entry).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(entry)
}
