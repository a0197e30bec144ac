package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/yeremiapane/cleantrack/models"
	"github.com/yeremiapane/cleantrack/store"
	"github.com/yeremiapane/cleantrack/utils"
	"gorm.io/gorm"
)

// ErrRequestNotFound dikembalikan Resolve untuk id request yang tidak ada.
var ErrRequestNotFound = errors.New("deletion request not found")

// DeletionWorkflow mengoordinasikan permintaan hapus location oleh
// manager dengan persetujuan master. State: pending -> approved|rejected,
// dua-duanya terminal.
type DeletionWorkflow struct {
	Store *store.Adapter
}

func NewDeletionWorkflow(adapter *store.Adapter) *DeletionWorkflow {
	return &DeletionWorkflow{Store: adapter}
}

// Request membuat DeletionRequest berstatus pending. Location-nya sendiri
// tidak disentuh sama sekali.
func (w *DeletionWorkflow) Request(locationID, locationName, departmentID, managerName, departmentName string) (*models.DeletionRequest, error) {
	req := &models.DeletionRequest{
		ID:             uuid.NewString(),
		LocationID:     locationID,
		LocationName:   locationName,
		DepartmentID:   departmentID,
		ManagerName:    managerName,
		DepartmentName: departmentName,
		Timestamp:      time.Now().UnixMilli(),
		Status:         models.RequestStatusPending,
	}
	if err := w.Store.Create(store.CollectionDeletionRequests, req); err != nil {
		return nil, err
	}
	utils.InfoLogger.Printf("deletion requested for location %s by %s (%s)",
		locationID, managerName, departmentName)
	return req, nil
}

// Resolve menyelesaikan satu request tepat sekali. Update status-nya
// kondisional (hanya dari pending) dan, kalau disetujui, penghapusan
// location ikut dalam batch atomik yang sama — tidak mungkin request
// approved tapi location-nya selamat, atau sebaliknya.
//
// Resolusi ganda (balapan dua sesi master) aman: resolver kedua kalah di
// update kondisional dan berakhir sebagai no-op diam-diam. Location yang
// sudah keburu dihapus langsung oleh master juga membuat langkah delete
// jadi no-op, bukan error.
func (w *DeletionWorkflow) Resolve(requestID string, approve bool) (*models.DeletionRequest, error) {
	var req models.DeletionRequest
	if err := w.Store.DB().First(&req, "id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}

	if req.Status != models.RequestStatusPending {
		// Sudah terminal; percobaan kedua adalah no-op.
		return &req, nil
	}

	return w.resolveFrom(req, approve)
}

// resolveFrom menjalankan batch resolusi berdasarkan state request yang
// sudah dibaca pemanggil. State itu bisa basi (resolver lain commit di
// antara read dan batch), makanya langkah delete ditandai RequirePrior:
// kalau update kondisionalnya nol baris, delete ikut dilewati dan kita
// tinggal membaca state terminal pemenangnya.
func (w *DeletionWorkflow) resolveFrom(req models.DeletionRequest, approve bool) (*models.DeletionRequest, error) {
	status := models.RequestStatusRejected
	if approve {
		status = models.RequestStatusApproved
	}

	ops := []store.BatchOp{{
		Kind:         store.BatchUpdate,
		Collection:   store.CollectionDeletionRequests,
		ID:           req.ID,
		DepartmentID: req.DepartmentID,
		Updates:      map[string]interface{}{"status": status},
		Where:        map[string]interface{}{"status": models.RequestStatusPending},
	}}
	if approve {
		ops = append(ops, store.BatchOp{
			Kind:         store.BatchDelete,
			Collection:   store.CollectionLocations,
			ID:           req.LocationID,
			DepartmentID: req.DepartmentID,
			RequirePrior: true,
		})
	}

	affected, err := w.Store.AtomicBatch(ops)
	if err != nil {
		return nil, err
	}
	if affected[0] == 0 {
		// Kalah balapan dengan resolver lain; baca state terminal-nya.
		if err := w.Store.DB().First(&req, "id = ?", req.ID).Error; err != nil {
			return nil, err
		}
		return &req, nil
	}

	req.Status = status
	utils.InfoLogger.Printf("deletion request %s resolved: %s", req.ID, status)
	return &req, nil
}
