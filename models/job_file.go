package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Job file categories.
const (
	FileCategoryContract       = "Contract"
	FileCategoryPermit         = "Permit"
	FileCategoryPlan           = "Plan"
	FileCategoryPhoto          = "Photo"
	FileCategoryCorrespondence = "Correspondence"
	FileCategoryOther          = "Other"
)

var FileCategories = []string{
	FileCategoryContract,
	FileCategoryPermit,
	FileCategoryPlan,
	FileCategoryPhoto,
	FileCategoryCorrespondence,
	FileCategoryOther,
}

// JobFile is a document attached to a job (contracts, permits, photos...).
// FileLink points at the attachment store.
type JobFile struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	JobID      uuid.UUID `gorm:"type:uuid;index;not null" json:"jobId"`
	Job        Job       `gorm:"foreignKey:JobID" json:"-"`
	FileName   string    `gorm:"not null" json:"fileName"`
	FileLink   string    `gorm:"not null" json:"fileLink"`
	Category   string    `gorm:"not null" json:"category"`
	UploadedAt JSONTime  `gorm:"not null" json:"uploadedAt"`
	UploadedBy string    `gorm:"not null" json:"uploadedBy"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (f *JobFile) BeforeCreate(tx *gorm.DB) (err error) {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return
}

// ValidFileCategory reports whether s is one of the fixed categories.
func ValidFileCategory(s string) bool {
	for _, v := range FileCategories {
		if v == s {
			return true
		}
	}
	return false
}
