package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Generated document types.
const (
	DocumentTypeEstimate = "Estimate"
	DocumentTypeInvoice  = "Invoice"
)

// GeneratedDocument is the append-only log of issued estimates and
// invoices. LineItems holds the JSON snapshot taken at generation time;
// issued documents never recompute from live data.
type GeneratedDocument struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Type        string         `gorm:"size:20;not null;index" json:"type"`
	Number      string         `gorm:"size:20;not null;uniqueIndex" json:"number"`
	JobID       uuid.UUID      `gorm:"type:uuid;index;not null" json:"jobId"`
	Job         Job            `gorm:"foreignKey:JobID" json:"-"`
	LineItems   datatypes.JSON `gorm:"type:jsonb;not null" json:"lineItems"`
	Subtotal    float64        `gorm:"not null" json:"subtotal"`
	TaxRate     float64        `gorm:"not null" json:"taxRate"`
	TaxAmount   float64        `gorm:"not null" json:"taxAmount"`
	GrandTotal  float64        `gorm:"not null" json:"grandTotal"`
	FileName    string         `gorm:"not null" json:"fileName"`
	FileLink    string         `gorm:"not null" json:"fileLink"`
	GeneratedAt JSONTime       `gorm:"not null" json:"generatedAt"`
	GeneratedBy string         `gorm:"not null" json:"generatedBy"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (d *GeneratedDocument) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return
}

// ValidDocumentType reports whether s is Estimate or Invoice.
func ValidDocumentType(s string) bool {
	return s == DocumentTypeEstimate || s == DocumentTypeInvoice
}
