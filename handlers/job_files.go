package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jcconstruction/tracker/config"
	"github.com/jcconstruction/tracker/middleware"
	"github.com/jcconstruction/tracker/models"
	"github.com/jcconstruction/tracker/utils"
)

type jobFileRow struct {
	models.JobFile
	jobRef
}

func GetAllJobFiles(w http.ResponseWriter, r *http.Request) {
	q := config.DB.Model(&models.JobFile{})
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
	if category := strings.TrimSpace(r.URL.Query().Get("category")); category != "" {
		q = q.Where("category = ?", category)
	}

	var files []models.JobFile
	if err := q.Order("uploaded_at DESC").Find(&files).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	ids := make([]uuid.UUID, 0, len(files))
	for _, f := range files {
		ids = append(ids, f.JobID)
	}
	refs, err := resolveJobRefs(ids)
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	out := make([]jobFileRow, len(files))
	for i, f := range files {
		out[i] = jobFileRow{JobFile: f, jobRef: refs[f.JobID]}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// CreateJobFile attaches a document to a job. Same ordering as receipts:
// upload first, record second.
func CreateJobFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}
	jobID, err := uuid.Parse(r.FormValue("jobId"))
	if err != nil {
		http.Error(w, "invalid job id", http.StatusBadRequest)
		return
	}
	if _, ok := requireJob(w, r, jobID); !ok {
		return
	}
	category := strings.TrimSpace(r.FormValue("category"))
	if !models.ValidFileCategory(category) {
		http.Error(w, "invalid file category", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "failed to read file", http.StatusBadRequest)
		return
	}

	fileName := utils.SanitizeFilename(header.Filename)
	link, err := FileStore.Upload(r.Context(), data, fileName, header.Header.Get("Content-Type"), "jobfiles")
	if err != nil {
		http.Error(w, "file upload failed: "+err.Error(), http.StatusBadGateway)
		return
	}

	jf := models.JobFile{
		JobID:      jobID,
		FileName:   fileName,
		FileLink:   link,
		Category:   category,
		UploadedAt: models.JSONTime(time.Now().UTC()),
		UploadedBy: middleware.GetUsername(r),
	}
	if err := config.DB.Create(&jf).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(jf)
}
