package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/jcconstruction/tracker/config"
	"github.com/jcconstruction/tracker/middleware"
	"github.com/jcconstruction/tracker/models"
	"github.com/jcconstruction/tracker/pkg/billing"
	"github.com/jcconstruction/tracker/pkg/docpdf"
	"github.com/jcconstruction/tracker/utils"
)

type generateDocumentReq struct {
	Type    string             `json:"type"`
	JobID   uuid.UUID          `json:"jobId"`
	Options billing.Options    `json:"options"`
	Rates   billing.Rates      `json:"rates"`
	TaxRate float64            `json:"taxRate"`
	Manual  []billing.LineItem `json:"manual"`
	Notes   string             `json:"notes"`
	Terms   string             `json:"terms"`
}

// GenerateDocument builds an estimate or invoice end to end: assemble
// line items from live data, render the PDF, upload it, then append the
// immutable log row with the line items frozen as JSON. Any failure
// before the final insert leaves no document issued.
func GenerateDocument(w http.ResponseWriter, r *http.Request) {
	var req generateDocumentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if !models.ValidDocumentType(req.Type) {
		http.Error(w, "type must be Estimate or Invoice", http.StatusBadRequest)
		return
	}
	if req.TaxRate < 0 {
		http.Error(w, "taxRate must be non-negative", http.StatusBadRequest)
		return
	}
	job, ok := requireJob(w, r, req.JobID)
	if !ok {
		return
	}

	var (
		entries   []models.TimeEntry
		materials []models.MaterialUsage
		receipts  []models.Receipt
		payments  []models.DownPayment
	)
	if err := config.DB.Where("job_id = ?", job.ID).Find(&entries).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if err := config.DB.Where("job_id = ?", job.ID).Find(&materials).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if err := config.DB.Where("job_id = ?", job.ID).Find(&receipts).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if err := config.DB.Where("job_id = ?", job.ID).Find(&payments).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	items, err := billing.Build(job, req.Options, req.Rates, entries, materials, receipts, payments, req.Manual)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := billing.Validate(items); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	totals := billing.ComputeTotals(items, req.TaxRate)

	var existing []string
	if err := config.DB.Model(&models.GeneratedDocument{}).
		Where("type = ?", req.Type).
		Pluck("number", &existing).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	number := billing.FormatNumber(req.Type, billing.NextNumber(existing, billing.DefaultNumberSeed))

	terms := strings.TrimSpace(req.Terms)
	if terms == "" && req.Type == models.DocumentTypeInvoice {
		terms = config.DefaultInvoiceTerms()
	}
	now := time.Now().UTC()
	pdf, err := docpdf.Render(docpdf.Document{
		Type:          req.Type,
		Number:        number,
		Date:          now,
		JobName:       job.Name,
		ClientName:    job.Client,
		ClientAddress: jobAddress(job),
		Items:         items,
		Totals:        totals,
		Notes:         strings.TrimSpace(req.Notes),
		Terms:         terms,
	}, docpdf.Company{
		Name:    config.CompanyName(),
		Address: config.CompanyAddress(),
		Phone:   config.CompanyPhone(),
		Email:   config.CompanyEmail(),
	})
	if err != nil {
		http.Error(w, "pdf generation failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	fileName := utils.SanitizeFilename(fmt.Sprintf("%s_%s.pdf", number, job.Name))
	link, err := FileStore.Upload(r.Context(), pdf, fileName, "application/pdf", "documents")
	if err != nil {
		http.Error(w, "file upload failed: "+err.Error(), http.StatusBadGateway)
		return
	}

	snapshot, err := json.Marshal(items)
	if err != nil {
		http.Error(w, "failed to encode line items", http.StatusInternalServerError)
		return
	}
	doc := models.GeneratedDocument{
		Type:        req.Type,
		Number:      number,
		JobID:       job.ID,
		LineItems:   datatypes.JSON(snapshot),
		Subtotal:    totals.Subtotal,
		TaxRate:     totals.TaxRate,
		TaxAmount:   totals.TaxAmount,
		GrandTotal:  totals.GrandTotal,
		FileName:    fileName,
		FileLink:    link,
		GeneratedAt: models.JSONTime(now),
		GeneratedBy: middleware.GetUsername(r),
	}
	if err := config.DB.Create(&doc).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(doc)
}

type documentRow struct {
	models.GeneratedDocument
	jobRef
}

func GetAllDocuments(w http.ResponseWriter, r *http.Request) {
	q := config.DB.Model(&models.GeneratedDocument{})
	scoped, err := scopedJobIDs(r)
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if scoped != nil {
		q = q.Where("job_id IN ?", scoped)
	}
	if docType := strings.TrimSpace(r.URL.Query().Get("type")); docType != "" {
		q = q.Where("type = ?", docType)
	}
	if jobID := strings.TrimSpace(r.URL.Query().Get("jobId")); jobID != "" {
		q = q.Where("job_id = ?", jobID)
	}

	var docs []models.GeneratedDocument
	if err := q.Order("generated_at DESC").Find(&docs).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	ids := make([]uuid.UUID, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.JobID)
	}
	refs, err := resolveJobRefs(ids)
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	out := make([]documentRow, len(docs))
	for i, d := range docs {
		out[i] = documentRow{GeneratedDocument: d, jobRef: refs[d.JobID]}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// jobAddress joins the optional postal fields into one display line.
func jobAddress(job *models.Job) string {
	var parts []string
	for _, p := range []*string{job.AddressStreet, job.AddressCity, job.AddressState, job.AddressZip} {
		if p != nil && strings.TrimSpace(*p) != "" {
			parts = append(parts, strings.TrimSpace(*p))
		}
	}
	return strings.Join(parts, ", ")
}
