package config

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"github.com/jcconstruction/tracker/models"
)

// Migrations applies the schema changesets in order.
func Migrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "20250801_core_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(
					&models.User{},
					&models.Job{},
					&models.TimeEntry{},
					&models.MaterialUsage{},
					&models.Receipt{},
					&models.DownPayment{},
					&models.JobFile{},
					&models.GeneratedDocument{},
				)
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(
					&models.GeneratedDocument{},
					&models.JobFile{},
					&models.DownPayment{},
					&models.Receipt{},
					&models.MaterialUsage{},
					&models.TimeEntry{},
					&models.Job{},
					&models.User{},
				)
			},
		},
	})
	return m.Migrate()
}
