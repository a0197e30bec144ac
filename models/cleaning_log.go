package models

const (
	LogStatusCompleted = "completed"
	// LogStatusFlagged dicadangkan untuk review QC, belum diproduksi.
	LogStatusFlagged = "flagged"
)

// CleaningLog bersifat append-only: dibuat sekali saat check-in, tidak
// pernah diubah, dan hanya dihapus lewat reset massal per departemen.
type CleaningLog struct {
	ID           string `gorm:"type:varchar(64);primaryKey" json:"id"`
	DepartmentID string `gorm:"type:varchar(64);not null;index" json:"department_id"`
	LocationID   string `gorm:"type:varchar(64);not null;index" json:"location_id"`
	CleanerID    string `gorm:"type:varchar(64);not null" json:"cleaner_id"`
	Timestamp    int64  `gorm:"not null" json:"timestamp"` // epoch millis
	Status       string `gorm:"type:varchar(15);not null;default:'completed'" json:"status"`
}
