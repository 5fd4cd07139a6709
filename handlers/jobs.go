package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/jcconstruction/tracker/config"
	"github.com/jcconstruction/tracker/middleware"
	"github.com/jcconstruction/tracker/models"
)

func GetAllJobs(w http.ResponseWriter, r *http.Request) {
	page, limit := 1, 10
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		limit = l
	}
	offset := (page - 1) * limit

	q := config.DB.Model(&models.Job{})
	if scope := middleware.ClientScope(r); scope != "" {
		q = q.Where("client = ?", scope)
	}
	if client := strings.TrimSpace(r.URL.Query().Get("client")); client != "" {
		q = q.Where("client = ?", client)
	}
	if status := strings.TrimSpace(r.URL.Query().Get("status")); status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		http.Error(w, "db count error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	var jobs []models.Job
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&jobs).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"total": total,
		"page":  page,
		"limit": limit,
		"data":  jobs,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func CreateJob(w http.ResponseWriter, r *http.Request) {
	var job models.Job
	if err := json.NewDecoder(r.Body).Decode(&job); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	job.Name = strings.TrimSpace(job.Name)
	job.Client = strings.TrimSpace(job.Client)
	if job.Name == "" || job.Client == "" {
		http.Error(w, "name and client are required", http.StatusBadRequest)
		return
	}
	if job.Status == "" {
		job.Status = models.JobStatusPlanning
	}
	if !models.ValidJobStatus(job.Status) {
		http.Error(w, "invalid status", http.StatusBadRequest)
		return
	}
	if job.EstimatedHours < 0 || job.EstimatedMaterialCost < 0 {
		http.Error(w, "estimates must be non-negative", http.StatusBadRequest)
		return
	}
	if err := config.DB.Create(&job).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(job)
}

func GetJob(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var job models.Job
	if err := config.DB.First(&job, "id = ?", id).Error; err != nil {
		http.Error(w, "job not found", http.StatusNotFound)
		return
	}
	if scope := middleware.ClientScope(r); scope != "" && strings.TrimSpace(job.Client) != scope {
		http.Error(w, "job not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job)
}

func UpdateJob(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid job id", http.StatusBadRequest)
		return
	}
	var job models.Job
	if err := config.DB.First(&job, "id = ?", id).Error; err != nil {
		http.Error(w, "job not found", http.StatusNotFound)
		return
	}
	if err := json.NewDecoder(r.Body).Decode(&job); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	job.Name = strings.TrimSpace(job.Name)
	job.Client = strings.TrimSpace(job.Client)
	if job.Name == "" || job.Client == "" {
		http.Error(w, "name and client are required", http.StatusBadRequest)
		return
	}
	if !models.ValidJobStatus(job.Status) {
		http.Error(w, "invalid status", http.StatusBadRequest)
		return
	}
	if job.EstimatedHours < 0 || job.EstimatedMaterialCost < 0 {
		http.Error(w, "estimates must be non-negative", http.StatusBadRequest)
		return
	}
	// The path is authoritative for which row gets written.
	job.ID = id
	if err := config.DB.Save(&job).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job)
}

// DeleteJob removes a job and every child record referencing it, in one
// transaction. Orphan rows are never retained; this is irreversible.
func DeleteJob(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	jobID, err := uuid.Parse(id)
	if err != nil {
		http.Error(w, "invalid job id", http.StatusBadRequest)
		return
	}
	var job models.Job
	if err := config.DB.First(&job, "id = ?", jobID).Error; err != nil {
		http.Error(w, "job not found", http.StatusNotFound)
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		for _, child := range []interface{}{
			&models.TimeEntry{},
			&models.MaterialUsage{},
			&models.Receipt{},
			&models.DownPayment{},
			&models.JobFile{},
		} {
			if err := tx.Where("job_id = ?", jobID).Delete(child).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&job).Error
	})
	if err != nil {
		http.Error(w, "failed to delete job: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
