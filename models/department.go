package models

import "time"

// Department adalah tenant root. Semua data anak (cleaner, location, log)
// hanya menyimpan referensi DepartmentID, tidak ada embedding.
type Department struct {
	ID          string `gorm:"type:varchar(64);primaryKey" json:"id"`
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	ManagerName string `gorm:"type:varchar(255);not null" json:"manager_name"`
	Password    string `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
