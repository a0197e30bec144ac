package models

import "time"

// DBChange adalah feed notifikasi perubahan milik store adapter. Setiap
// write menambahkan satu baris; monitor mem-poll baris yang belum
// diproses lalu mengirim snapshot segar ke subscriber yang cocok.
type DBChange struct {
	ID           uint      `gorm:"primaryKey"`
	Collection   string    `gorm:"type:varchar(50);not null;index:idx_collection_processed"`
	RecordID     string    `gorm:"type:varchar(64);not null"`
	DepartmentID string    `gorm:"type:varchar(64);index"`
	ActionType   string    `gorm:"type:varchar(10);not null"`
	ChangedAt    time.Time `gorm:"not null"`
	Processed    bool      `gorm:"default:false;index:idx_collection_processed"`
}
