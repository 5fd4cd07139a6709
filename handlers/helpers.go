package handlers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jcconstruction/tracker/config"
	"github.com/jcconstruction/tracker/middleware"
	"github.com/jcconstruction/tracker/models"
)

// requireJob loads the referenced job and enforces the caller's client
// scope. Child records can only ever be created against an existing job.
func requireJob(w http.ResponseWriter, r *http.Request, jobID uuid.UUID) (*models.Job, bool) {
	if jobID == uuid.Nil {
		http.Error(w, "jobId is required", http.StatusBadRequest)
		return nil, false
	}
	var job models.Job
	if err := config.DB.First(&job, "id = ?", jobID).Error; err != nil {
		http.Error(w, "job not found", http.StatusBadRequest)
		return nil, false
	}
	if scope := middleware.ClientScope(r); scope != "" && strings.TrimSpace(job.Client) != scope {
		http.Error(w, "job not found", http.StatusBadRequest)
		return nil, false
	}
	return &job, true
}

// jobRef is the name pair resolved through the join key; child rows no
// longer store denormalized copies.
type jobRef struct {
	JobName string `json:"jobName"`
	Client  string `json:"client"`
}

// resolveJobRefs maps job IDs to their current names in one query.
func resolveJobRefs(ids []uuid.UUID) (map[uuid.UUID]jobRef, error) {
	refs := make(map[uuid.UUID]jobRef, len(ids))
	if len(ids) == 0 {
		return refs, nil
	}
	var jobs []models.Job
	if err := config.DB.Where("id IN ?", ids).Find(&jobs).Error; err != nil {
		return nil, err
	}
	for _, j := range jobs {
		refs[j.ID] = jobRef{JobName: j.Name, Client: j.Client}
	}
	return refs, nil
}

// scopedJobIDs returns the job IDs visible to the caller, or nil when
// the caller is unrestricted.
func scopedJobIDs(r *http.Request) ([]uuid.UUID, error) {
	scope := middleware.ClientScope(r)
	if scope == "" {
		return nil, nil
	}
	var ids []uuid.UUID
	if err := config.DB.Model(&models.Job{}).Where("client = ?", scope).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []uuid.UUID{}
	}
	return ids, nil
}
