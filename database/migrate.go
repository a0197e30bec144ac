package database

import (
	"github.com/yeremiapane/cleantrack/models"
	"github.com/yeremiapane/cleantrack/utils"
	"gorm.io/gorm"
)

// Migrate menjalankan AutoMigrate untuk semua model inti plus change
// feed. Tidak ada tooling migrasi historis; skema diatur gorm.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Department{},
		&models.Cleaner{},
		&models.Location{},
		&models.CleaningLog{},
		&models.DeletionRequest{},
		&models.DBChange{},
	)
	if err != nil {
		return err
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}
