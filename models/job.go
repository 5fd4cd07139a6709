package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Job statuses. Jobs with StatusInProgress feed the WIP dashboard tiles.
const (
	JobStatusPlanning   = "Planning"
	JobStatusInProgress = "In Progress"
	JobStatusOnHold     = "On Hold"
	JobStatusCompleted  = "Completed"
	JobStatusCancelled  = "Cancelled"
)

var JobStatuses = []string{
	JobStatusPlanning,
	JobStatusInProgress,
	JobStatusOnHold,
	JobStatusCompleted,
	JobStatusCancelled,
}

// Job is a unit of billable construction work for a client. It is the
// single source of truth for the client and job names; child records
// reference it by ID only and resolve names at read time.
type Job struct {
	ID                    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name                  string    `gorm:"not null;index" json:"name"`
	Client                string    `gorm:"not null;index" json:"client"`
	Status                string    `gorm:"not null;default:'Planning'" json:"status"`
	StartDate             *JSONTime `json:"startDate,omitempty"`
	EndDate               *JSONTime `json:"endDate,omitempty"`
	Description           string    `json:"description"`
	EstimatedHours        float64   `gorm:"not null;default:0" json:"estimatedHours"`
	EstimatedMaterialCost float64   `gorm:"not null;default:0" json:"estimatedMaterialCost"`
	AddressStreet         *string   `json:"addressStreet,omitempty"`
	AddressCity           *string   `json:"addressCity,omitempty"`
	AddressState          *string   `json:"addressState,omitempty"`
	AddressZip            *string   `json:"addressZip,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (j *Job) BeforeCreate(tx *gorm.DB) (err error) {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return
}

// ValidJobStatus reports whether s is one of the fixed job statuses.
func ValidJobStatus(s string) bool {
	for _, v := range JobStatuses {
		if v == s {
			return true
		}
	}
	return false
}
