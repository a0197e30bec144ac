package models

const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)

// DeletionRequest mencatat permintaan manager untuk menghapus location.
// LocationName didenormalisasi saat request dibuat supaya tetap bisa
// ditampilkan setelah location-nya dihapus.
type DeletionRequest struct {
	ID             string `gorm:"type:varchar(64);primaryKey" json:"id"`
	LocationID     string `gorm:"type:varchar(64);not null;index" json:"location_id"`
	LocationName   string `gorm:"type:varchar(255);not null" json:"location_name"`
	DepartmentID   string `gorm:"type:varchar(64);not null;index" json:"department_id"`
	ManagerName    string `gorm:"type:varchar(255);not null" json:"manager_name"`
	DepartmentName string `gorm:"type:varchar(255);not null" json:"department_name"`
	Timestamp      int64  `gorm:"not null" json:"timestamp"` // epoch millis
	Status         string `gorm:"type:varchar(15);not null;default:'pending'" json:"status"`
}
