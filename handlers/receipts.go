package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jcconstruction/tracker/config"
	"github.com/jcconstruction/tracker/models"
	"github.com/jcconstruction/tracker/pkg/storage"
	"github.com/jcconstruction/tracker/utils"
)

// FileStore is the attachment backend; main wires it at startup, handler
// tests swap in a stub.
var FileStore storage.Uploader

const maxUploadBytes = 10 << 20

type receiptRow struct {
	models.Receipt
	jobRef
}

func GetAllReceipts(w http.ResponseWriter, r *http.Request) {
	q := config.DB.Model(&models.Receipt{})
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

	var receipts []models.Receipt
	if err := q.Order("uploaded_at DESC").Find(&receipts).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	ids := make([]uuid.UUID, 0, len(receipts))
	for _, rc := range receipts {
		ids = append(ids, rc.JobID)
	}
	refs, err := resolveJobRefs(ids)
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	out := make([]receiptRow, len(receipts))
	for i, rc := range receipts {
		out[i] = receiptRow{Receipt: rc, jobRef: refs[rc.JobID]}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// CreateReceipt takes a multipart form: the file goes to the attachment
// store first, and the row is only written once the upload succeeded. A
// failed upload leaves no record behind.
func CreateReceipt(w http.ResponseWriter, r *http.Request) {
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
	contractor := strings.TrimSpace(r.FormValue("contractor"))
	payor := strings.TrimSpace(r.FormValue("payor"))
	if contractor == "" || payor == "" {
		http.Error(w, "contractor and payor are required", http.StatusBadRequest)
		return
	}
	amount, err := strconv.ParseFloat(r.FormValue("amount"), 64)
	if err != nil || amount < 0 {
		http.Error(w, "amount must be a non-negative number", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "receipt file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "failed to read file", http.StatusBadRequest)
		return
	}

	fileName := utils.SanitizeFilename(header.Filename)
	link, err := FileStore.Upload(r.Context(), data, fileName, header.Header.Get("Content-Type"), "receipts")
	if err != nil {
		http.Error(w, "file upload failed: "+err.Error(), http.StatusBadGateway)
		return
	}

	receipt := models.Receipt{
		JobID:      jobID,
		Contractor: contractor,
		Payor:      payor,
		Amount:     amount,
		FileName:   fileName,
		FileLink:   link,
		UploadedAt: models.JSONTime(time.Now().UTC()),
	}
	if err := config.DB.Create(&receipt).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(receipt)
}
