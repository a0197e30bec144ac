package store

import (
	"time"

	"github.com/yeremiapane/cleantrack/models"
	"github.com/yeremiapane/cleantrack/utils"
	"gorm.io/gorm"
)

// ChangeMonitor mem-poll feed db_changes lalu mengirim snapshot segar ke
// subscriber yang cocok. Satu pasangan (koleksi, departemen) hanya
// menghasilkan satu kali fan-out per putaran walau ada banyak baris.
type ChangeMonitor struct {
	adapter  *Adapter
	stopChan chan struct{}
	Interval time.Duration
}

func NewChangeMonitor(adapter *Adapter) *ChangeMonitor {
	return &ChangeMonitor{
		adapter:  adapter,
		stopChan: make(chan struct{}),
		Interval: 500 * time.Millisecond,
	}
}

func (cm *ChangeMonitor) Start() {
	go func() {
		ticker := time.NewTicker(cm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := cm.PollOnce(); err != nil {
					utils.ErrorLogger.Printf("change monitor: %v", err)
				}
			case <-cm.stopChan:
				return
			}
		}
	}()
}

func (cm *ChangeMonitor) Stop() {
	close(cm.stopChan)
}

type changeKey struct {
	collection   string
	departmentID string
}

// PollOnce memproses batch perubahan yang belum diproses. Error snapshot
// per subscriber tidak menghentikan putaran: subscriber lain tetap
// dilayani dan baris tetap ditandai processed (sinyal stale ditangani di
// lapisan subscription manager lewat resync manual).
func (cm *ChangeMonitor) PollOnce() error {
	var changes []models.DBChange
	err := cm.adapter.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("processed = ?", false).
			Order("changed_at ASC").
			Limit(100).
			Find(&changes).Error; err != nil {
			return err
		}
		if len(changes) == 0 {
			return nil
		}
		ids := make([]uint, 0, len(changes))
		for _, ch := range changes {
			ids = append(ids, ch.ID)
		}
		return tx.Model(&models.DBChange{}).
			Where("id IN ?", ids).
			Update("processed", true).Error
	})
	if err != nil {
		return err
	}
	if len(changes) == 0 {
		return nil
	}

	// Deduplikasi: satu fan-out per (koleksi, departemen).
	seen := make(map[changeKey]bool)
	for _, ch := range changes {
		key := changeKey{collection: ch.Collection, departmentID: ch.DepartmentID}
		if seen[key] {
			continue
		}
		seen[key] = true
		cm.notify(key.collection, key.departmentID)
	}
	return nil
}

func (cm *ChangeMonitor) notify(collection, departmentID string) {
	for _, sub := range cm.adapter.subscribersFor(collection, departmentID) {
		snapshot, err := cm.adapter.Snapshot(collection, sub.filter)
		if err != nil {
			utils.ErrorLogger.Printf("change monitor: snapshot %s: %v", collection, err)
			continue
		}
		sub.deliver(snapshot)
	}
}
