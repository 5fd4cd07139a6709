package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Receipt is an expense receipt attached to a job. A row only exists if
// its file made it to the attachment store first; FileLink is the
// shareable URL returned by the upload.
type Receipt struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	JobID      uuid.UUID `gorm:"type:uuid;index;not null" json:"jobId"`
	Job        Job       `gorm:"foreignKey:JobID" json:"-"`
	Contractor string    `gorm:"not null" json:"contractor"`
	Payor      string    `gorm:"not null" json:"payor"`
	Amount     float64   `gorm:"not null;default:0" json:"amount"`
	FileName   string    `gorm:"not null" json:"fileName"`
	FileLink   string    `gorm:"not null" json:"fileLink"`
	UploadedAt JSONTime  `gorm:"not null" json:"uploadedAt"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (rc *Receipt) BeforeCreate(tx *gorm.DB) (err error) {
	if rc.ID == uuid.Nil {
		rc.ID = uuid.New()
	}
	return
}
