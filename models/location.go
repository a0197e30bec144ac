package models

import "time"

// Location adalah titik kebersihan yang di-scan cleaner. Nama bilingual
// karena label QR dicetak dalam dua bahasa.
type Location struct {
	ID                   string `gorm:"type:varchar(64);primaryKey" json:"id"`
	DepartmentID         string `gorm:"type:varchar(64);not null;index" json:"department_id"`
	NameEn               string `gorm:"type:varchar(255);not null" json:"name_en"`
	NameZh               string `gorm:"type:varchar(255);not null" json:"name_zh"`
	Zone                 string `gorm:"type:varchar(100)" json:"zone"`
	TargetDailyFrequency int    `gorm:"not null" json:"target_daily_frequency"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
