package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaterialUsage is a material purchase or consumption logged against a job.
type MaterialUsage struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	JobID      uuid.UUID `gorm:"type:uuid;index;not null" json:"jobId"`
	Job        Job       `gorm:"foreignKey:JobID" json:"-"`
	Contractor string    `gorm:"not null" json:"contractor"`
	Material   string    `gorm:"not null;index" json:"material"`
	DateUsed   JSONTime  `gorm:"not null" json:"dateUsed"`
	Amount     float64   `gorm:"not null;default:0" json:"amount"`
	Payor      string    `json:"payor"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (m *MaterialUsage) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return
}
