package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TimeEntry records one contractor work interval on a job. DurationHours
// is computed from the clock times at creation and must be strictly
// positive; entries are immutable once created.
type TimeEntry struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	JobID         uuid.UUID `gorm:"type:uuid;index;not null" json:"jobId"`
	Job           Job       `gorm:"foreignKey:JobID" json:"-"`
	Contractor    string    `gorm:"not null;index" json:"contractor"`
	Date          JSONTime  `gorm:"not null" json:"date"`
	StartTime     string    `gorm:"size:5;not null" json:"startTime"` // "15:04"
	EndTime       string    `gorm:"size:5;not null" json:"endTime"`
	DurationHours float64   `gorm:"not null" json:"durationHours"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (e *TimeEntry) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return
}
