package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jcconstruction/tracker/config"
	"github.com/jcconstruction/tracker/models"
)

type materialRow struct {
	models.MaterialUsage
	jobRef
}

func GetAllMaterials(w http.ResponseWriter, r *http.Request) {
	q := config.DB.Model(&models.MaterialUsage{})
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
	if material := strings.TrimSpace(r.URL.Query().Get("material")); material != "" {
		q = q.Where("material = ?", material)
	}

	var usages []models.MaterialUsage
	if err := q.Order("date_used DESC").Find(&usages).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	ids := make([]uuid.UUID, 0, len(usages))
	for _, m := range usages {
		ids = append(ids, m.JobID)
	}
	refs, err := resolveJobRefs(ids)
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	out := make([]materialRow, len(usages))
	for i, m := range usages {
		out[i] = materialRow{MaterialUsage: m, jobRef: refs[m.JobID]}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

func CreateMaterial(w http.ResponseWriter, r *http.Request) {
	var usage models.MaterialUsage
	if err := json.NewDecoder(r.Body).Decode(&usage); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if _, ok := requireJob(w, r, usage.JobID); !ok {
		return
	}
	usage.Material = strings.TrimSpace(usage.Material)
	usage.Contractor = strings.TrimSpace(usage.Contractor)
	if usage.Material == "" || usage.Contractor == "" {
		http.Error(w, "material and contractor are required", http.StatusBadRequest)
		return
	}
	if usage.DateUsed.Time().IsZero() {
		http.Error(w, "dateUsed is required", http.StatusBadRequest)
		return
	}
	if usage.Amount < 0 {
		http.Error(w, "amount must be non-negative", http.StatusBadRequest)
		return
	}
	if err := config.DB.Create(&usage).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(usage)
}
