package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Down payment methods.
const (
	PaymentMethodCash         = "Cash"
	PaymentMethodCheck        = "Check"
	PaymentMethodBankTransfer = "Bank Transfer"
	PaymentMethodCreditCard   = "Credit Card"
	PaymentMethodOther        = "Other"
)

var PaymentMethods = []string{
	PaymentMethodCash,
	PaymentMethodCheck,
	PaymentMethodBankTransfer,
	PaymentMethodCreditCard,
	PaymentMethodOther,
}

// DownPayment is money received from the client ahead of invoicing.
// It appears on invoices as a negative (credit) line item.
type DownPayment struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	JobID        uuid.UUID `gorm:"type:uuid;index;not null" json:"jobId"`
	Job          Job       `gorm:"foreignKey:JobID" json:"-"`
	DateReceived JSONTime  `gorm:"not null" json:"dateReceived"`
	Amount       float64   `gorm:"not null;default:0" json:"amount"`
	Method       string    `gorm:"not null" json:"method"`
	Notes        string    `json:"notes"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (d *DownPayment) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return
}

// ValidPaymentMethod reports whether s is one of the fixed methods.
func ValidPaymentMethod(s string) bool {
	for _, v := range PaymentMethods {
		if v == s {
			return true
		}
	}
	return false
}
