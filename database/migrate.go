package database

import (
	"fmt"

	"gorm.io/gorm"

	"jobboard_backend/internal/models"
)

// Migrate проводит схему к актуальному состоянию.
func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return fmt.Errorf("failed to create uuid-ossp extension: %w", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Job{},
		&models.Application{},
	); err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}

	// Частичный уникальный индекс: соискатель держит не больше одного
	// живого отклика на вакансию. Withdrawn слот не занимает, поэтому
	// исключен из индекса. Финальный арбитр гонки двух Submit.
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_applications_live_unique
		ON applications (job_id, applicant_id)
		WHERE status <> 'withdrawn'
	`).Error; err != nil {
		return fmt.Errorf("failed to create live-application unique index: %w", err)
	}

	return nil
}
