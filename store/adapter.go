package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/yeremiapane/cleantrack/models"
	"gorm.io/gorm"
)

// Nama koleksi yang dikenal adapter. Skema persistensi (nama tabel dan
// kolom) adalah detail binding gorm, bukan kontrak komponen lain.
const (
	CollectionDepartments      = "departments"
	CollectionCleaners         = "cleaners"
	CollectionLocations        = "locations"
	CollectionCleaningLogs     = "cleaning_logs"
	CollectionDeletionRequests = "deletion_requests"
)

const (
	actionInsert = "INSERT"
	actionUpdate = "UPDATE"
	actionDelete = "DELETE"
)

// Filter membatasi query ke satu tenant. DepartmentID nil berarti tanpa
// filter (unscoped); scoping selalu diterapkan di level SQL, bukan
// disaring belakangan di sisi pemanggil.
type Filter struct {
	DepartmentID *string
}

func (f Filter) matches(departmentID string) bool {
	return f.DepartmentID == nil || *f.DepartmentID == departmentID
}

func (f Filter) apply(tx *gorm.DB) *gorm.DB {
	if f.DepartmentID != nil {
		return tx.Where("department_id = ?", *f.DepartmentID)
	}
	return tx
}

// Adapter membungkus gorm sebagai document store: read ter-scope,
// subscription live, dan write yang selalu mencatat baris DBChange dalam
// transaksi yang sama supaya monitor bisa mem-push snapshot segar.
type Adapter struct {
	db *gorm.DB

	mu     sync.RWMutex
	subs   map[uint64]*Subscription
	nextID uint64
}

func NewAdapter(db *gorm.DB) *Adapter {
	return &Adapter{
		db:   db,
		subs: make(map[uint64]*Subscription),
	}
}

// DB mengembalikan koneksi mentah, hanya untuk migrasi dan seeding.
func (a *Adapter) DB() *gorm.DB { return a.db }

// Snapshot membaca seluruh isi koleksi yang lolos filter. Selalu slice
// bertipe penuh, bukan delta.
func (a *Adapter) Snapshot(collection string, f Filter) (interface{}, error) {
	switch collection {
	case CollectionDepartments:
		var docs []models.Department
		err := f.apply(a.db.Model(&models.Department{})).Order("created_at ASC").Find(&docs).Error
		return docs, err
	case CollectionCleaners:
		var docs []models.Cleaner
		err := f.apply(a.db.Model(&models.Cleaner{})).Order("name ASC").Find(&docs).Error
		return docs, err
	case CollectionLocations:
		var docs []models.Location
		err := f.apply(a.db.Model(&models.Location{})).Order("created_at ASC").Find(&docs).Error
		return docs, err
	case CollectionCleaningLogs:
		var docs []models.CleaningLog
		err := f.apply(a.db.Model(&models.CleaningLog{})).Order("timestamp DESC").Find(&docs).Error
		return docs, err
	case CollectionDeletionRequests:
		var docs []models.DeletionRequest
		err := f.apply(a.db.Model(&models.DeletionRequest{})).Order("timestamp DESC").Find(&docs).Error
		return docs, err
	}
	return nil, fmt.Errorf("unknown collection %q", collection)
}

// Create menyimpan dokumen baru plus baris change feed-nya.
func (a *Adapter) Create(collection string, doc interface{}) error {
	id, departmentID, err := docKeys(collection, doc)
	if err != nil {
		return err
	}
	return a.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(doc).Error; err != nil {
			return err
		}
		return recordChange(tx, collection, id, departmentID, actionInsert)
	})
}

// Save menimpa dokumen yang sudah ada (last write wins).
func (a *Adapter) Save(collection string, doc interface{}) error {
	id, departmentID, err := docKeys(collection, doc)
	if err != nil {
		return err
	}
	return a.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(doc).Error; err != nil {
			return err
		}
		return recordChange(tx, collection, id, departmentID, actionUpdate)
	})
}

// Delete menghapus satu dokumen berdasarkan id. Tidak error kalau
// dokumennya sudah tidak ada.
func (a *Adapter) Delete(collection, id, departmentID string) error {
	model, err := modelFor(collection)
	if err != nil {
		return err
	}
	return a.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).Delete(model).Error; err != nil {
			return err
		}
		return recordChange(tx, collection, id, departmentID, actionDelete)
	})
}

// DeleteWhere menghapus semua dokumen satu tenant dalam satu koleksi
// (dipakai reset massal cleaning log). Mengembalikan jumlah terhapus.
func (a *Adapter) DeleteWhere(collection string, f Filter) (int64, error) {
	model, err := modelFor(collection)
	if err != nil {
		return 0, err
	}
	var affected int64
	err = a.db.Transaction(func(tx *gorm.DB) error {
		res := f.apply(tx.Session(&gorm.Session{AllowGlobalUpdate: true})).Delete(model)
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		departmentID := ""
		if f.DepartmentID != nil {
			departmentID = *f.DepartmentID
		}
		return recordChange(tx, collection, "*", departmentID, actionDelete)
	})
	return affected, err
}

// BatchOp adalah satu operasi dalam AtomicBatch.
type BatchOp struct {
	Kind         string // "update" atau "delete"
	Collection   string
	ID           string
	DepartmentID string
	Updates      map[string]interface{}
	// Where menambah kondisi pada update, dipakai untuk update
	// kondisional (mis. hanya kalau status masih pending).
	Where map[string]interface{}
	// RequirePrior melewati op ini kalau op sebelumnya tidak mengubah
	// baris apa pun. Dipakai op yang hanya valid kalau update
	// kondisional sebelumnya menang balapannya.
	RequirePrior bool
}

const (
	BatchUpdate = "update"
	BatchDelete = "delete"
)

// AtomicBatch menjalankan beberapa operasi lintas koleksi dalam satu
// transaksi. Mengembalikan RowsAffected per operasi supaya pemanggil bisa
// mendeteksi update kondisional yang kalah balapan; op ber-RequirePrior
// dilewati (affected 0, tanpa change row) ketika op sebelumnya nol baris.
// Satu-satunya pemakai multi-koleksi adalah resolusi deletion request.
func (a *Adapter) AtomicBatch(ops []BatchOp) ([]int64, error) {
	affected := make([]int64, len(ops))
	err := a.db.Transaction(func(tx *gorm.DB) error {
		for i, op := range ops {
			if op.RequirePrior && (i == 0 || affected[i-1] == 0) {
				continue
			}
			model, err := modelFor(op.Collection)
			if err != nil {
				return err
			}
			q := tx.Model(model).Where("id = ?", op.ID)
			for col, val := range op.Where {
				q = q.Where(fmt.Sprintf("%s = ?", col), val)
			}
			var res *gorm.DB
			switch op.Kind {
			case BatchUpdate:
				res = q.Updates(op.Updates)
			case BatchDelete:
				res = q.Delete(model)
			default:
				return fmt.Errorf("unknown batch op kind %q", op.Kind)
			}
			if res.Error != nil {
				return res.Error
			}
			affected[i] = res.RowsAffected
			action := actionUpdate
			if op.Kind == BatchDelete {
				action = actionDelete
			}
			if err := recordChange(tx, op.Collection, op.ID, op.DepartmentID, action); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return affected, nil
}

// ReassignDepartment memindahkan kepemilikan data pool lama ke departemen
// lain, per potongan chunkSize baris (alat migrasi master admin).
func (a *Adapter) ReassignDepartment(fromID, toID string, chunkSize int) (int64, error) {
	if chunkSize <= 0 {
		chunkSize = 450
	}
	var total int64
	collections := []string{CollectionCleaners, CollectionLocations, CollectionCleaningLogs}
	for _, collection := range collections {
		model, err := modelFor(collection)
		if err != nil {
			return total, err
		}
		for {
			var moved int64
			err := a.db.Transaction(func(tx *gorm.DB) error {
				var ids []string
				if err := tx.Model(model).Where("department_id = ?", fromID).
					Limit(chunkSize).Pluck("id", &ids).Error; err != nil {
					return err
				}
				if len(ids) == 0 {
					return nil
				}
				res := tx.Model(model).Where("id IN ?", ids).
					Update("department_id", toID)
				if res.Error != nil {
					return res.Error
				}
				moved = res.RowsAffected
				return recordChange(tx, collection, "*", toID, actionUpdate)
			})
			if err != nil {
				return total, err
			}
			total += moved
			if moved < int64(chunkSize) {
				break
			}
		}
	}
	return total, nil
}

func recordChange(tx *gorm.DB, collection, recordID, departmentID, action string) error {
	return tx.Create(&models.DBChange{
		Collection:   collection,
		RecordID:     recordID,
		DepartmentID: departmentID,
		ActionType:   action,
		ChangedAt:    time.Now(),
	}).Error
}

func modelFor(collection string) (interface{}, error) {
	switch collection {
	case CollectionDepartments:
		return &models.Department{}, nil
	case CollectionCleaners:
		return &models.Cleaner{}, nil
	case CollectionLocations:
		return &models.Location{}, nil
	case CollectionCleaningLogs:
		return &models.CleaningLog{}, nil
	case CollectionDeletionRequests:
		return &models.DeletionRequest{}, nil
	}
	return nil, fmt.Errorf("unknown collection %q", collection)
}

func docKeys(collection string, doc interface{}) (id string, departmentID string, err error) {
	switch d := doc.(type) {
	case *models.Department:
		return d.ID, d.ID, nil
	case *models.Cleaner:
		return d.ID, d.DepartmentID, nil
	case *models.Location:
		return d.ID, d.DepartmentID, nil
	case *models.CleaningLog:
		return d.ID, d.DepartmentID, nil
	case *models.DeletionRequest:
		return d.ID, d.DepartmentID, nil
	}
	return "", "", fmt.Errorf("unsupported document type %T for collection %q", doc, collection)
}
