package models

import "time"

type Cleaner struct {
	ID           string `gorm:"type:varchar(64);primaryKey" json:"id"`
	DepartmentID string `gorm:"type:varchar(64);not null;index" json:"department_id"`
	Name         string `gorm:"type:varchar(255);not null" json:"name"`
	Password     string `gorm:"type:varchar(255);not null" json:"-"`
	Avatar       string `gorm:"type:varchar(255)" json:"avatar"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
