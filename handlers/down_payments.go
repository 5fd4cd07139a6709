package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jcconstruction/tracker/config"
	"github.com/jcconstruction/tracker/models"
)

type downPaymentRow struct {
	models.DownPayment
	jobRef
}

func GetAllDownPayments(w http.ResponseWriter, r *http.Request) {
	q := config.DB.Model(&models.DownPayment{})
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

	var payments []models.DownPayment
	if err := q.Order("date_received DESC").Find(&payments).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	ids := make([]uuid.UUID, 0, len(payments))
	for _, d := range payments {
		ids = append(ids, d.JobID)
	}
	refs, err := resolveJobRefs(ids)
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	out := make([]downPaymentRow, len(payments))
	for i, d := range payments {
		out[i] = downPaymentRow{DownPayment: d, jobRef: refs[d.JobID]}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// CreateDownPayment records money received ahead of invoicing. The
// amount must be positive; it is stored positive and credited (negated)
// only when it lands on an invoice.
func CreateDownPayment(w http.ResponseWriter, r *http.Request) {
	var payment models.DownPayment
	if err := json.NewDecoder(r.Body).Decode(&payment); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if _, ok := requireJob(w, r, payment.JobID); !ok {
		return
	}
	if payment.Amount <= 0 {
		http.Error(w, "amount must be positive", http.StatusBadRequest)
		return
	}
	if !models.ValidPaymentMethod(payment.Method) {
		http.Error(w, "invalid payment method", http.StatusBadRequest)
		return
	}
	if payment.DateReceived.Time().IsZero() {
		http.Error(w, "dateReceived is required", http.StatusBadRequest)
		return
	}
	if err := config.DB.Create(&payment).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(payment)
}
