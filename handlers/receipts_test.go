package handlers

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jcconstruction/tracker/config"
	"github.com/jcconstruction/tracker/models"
)

func receiptForm(t *testing.T, jobID string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("jobId", jobID)
	mw.WriteField("contractor", "Mike")
	mw.WriteField("payor", "Company Card")
	mw.WriteField("amount", "45.99")
	fw, err := mw.CreateFormFile("file", "home depot.jpg")
	if err != nil {
		t.Fatal(err)
	}
	io.WriteString(fw, "fake image bytes")
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestCreateReceiptUploadThenRecord(t *testing.T) {
	setupTestDB(t)
	store := &stubUploader{}
	FileStore = store

	job := models.Job{Name: "Deck", Client: "Smith"}
	mustCreate(t, &job)

	body, contentType := receiptForm(t, job.ID.String())
	req := asRole(httptest.NewRequest("POST", "/api/v1/receipts", body), models.RoleContractor)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	CreateReceipt(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if len(store.uploads) != 1 {
		t.Fatalf("expected 1 upload, got %d", len(store.uploads))
	}
	var receipt models.Receipt
	if err := config.DB.First(&receipt).Error; err != nil {
		t.Fatal(err)
	}
	if receipt.FileName != "home_depot.jpg" {
		t.Errorf("file name = %q, want sanitized home_depot.jpg", receipt.FileName)
	}
	if receipt.FileLink != store.uploads[0] {
		t.Errorf("file link = %q, want upload link %q", receipt.FileLink, store.uploads[0])
	}
	if receipt.Amount != 45.99 {
		t.Errorf("amount = %v, want 45.99", receipt.Amount)
	}
}

func TestCreateReceiptUploadFailureLeavesNoRow(t *testing.T) {
	setupTestDB(t)
	FileStore = &stubUploader{fail: true}

	job := models.Job{Name: "Deck", Client: "Smith"}
	mustCreate(t, &job)

	body, contentType := receiptForm(t, job.ID.String())
	req := asRole(httptest.NewRequest("POST", "/api/v1/receipts", body), models.RoleContractor)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	CreateReceipt(w, req)

	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502 on upload failure", w.Code)
	}
	var count int64
	config.DB.Model(&models.Receipt{}).Count(&count)
	if count != 0 {
		t.Error("no receipt row may exist when the upload failed")
	}
}
