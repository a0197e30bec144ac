package services

import (
	"sync"
	"sync/atomic"

	"github.com/yeremiapane/cleantrack/store"
	"github.com/yeremiapane/cleantrack/utils"
)

// SubscriptionManager memiliki semua live query satu konteks logis (satu
// sesi websocket). Ganti konteks = teardown penuh dulu, baru set baru
// dibuka, supaya callback dari konteks lama tidak pernah menimpa state
// dengan data tenant lain.
type SubscriptionManager struct {
	adapter *store.Adapter

	mu   sync.Mutex
	subs []*store.Subscription
	gen  uint64

	stale atomic.Bool
}

func NewSubscriptionManager(adapter *store.Adapter) *SubscriptionManager {
	return &SubscriptionManager{adapter: adapter}
}

// SetContext membatalkan seluruh subscription konteks sebelumnya, lalu
// membuka satu subscription per koleksi milik scope. Cancel selesai
// sebelum registrasi baru dimulai. deliver menerima snapshot penuh yang
// harus diperlakukan replace-not-merge. Scope nil = subscribe kosong.
func (m *SubscriptionManager) SetContext(scope *Scope, deliver func(collection string, snapshot interface{})) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, sub := range m.subs {
		m.adapter.Unsubscribe(sub)
	}
	m.subs = nil
	gen := atomic.AddUint64(&m.gen, 1)
	m.stale.Store(false)

	if scope == nil {
		return
	}

	filter := scope.Filter()
	for _, collection := range scope.Collections {
		collection := collection
		sub := m.adapter.Subscribe(collection, filter, func(snapshot interface{}) {
			// Penjaga generasi: callback yang tertangkap sebelum
			// teardown tidak boleh diterapkan ke konteks baru.
			if atomic.LoadUint64(&m.gen) != gen {
				return
			}
			deliver(collection, snapshot)
		})
		m.subs = append(m.subs, sub)

		// Snapshot awal, lewat jalur delivery yang sama.
		snapshot, err := m.adapter.Snapshot(collection, filter)
		if err != nil {
			utils.ErrorLogger.Printf("subscription: initial snapshot %s: %v", collection, err)
			m.stale.Store(true)
			continue
		}
		deliver(collection, snapshot)
	}
}

// Resync membaca ulang setiap koleksi yang di-subscribe satu kali dan
// mengirimkannya persis seperti callback live — jaring pengaman untuk
// lingkungan yang push-nya tidak andal.
func (m *SubscriptionManager) Resync(deliver func(collection string, snapshot interface{})) {
	m.mu.Lock()
	subs := make([]*store.Subscription, len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()

	failed := false
	for _, sub := range subs {
		snapshot, err := m.adapter.Snapshot(sub.Collection(), sub.Filter())
		if err != nil {
			utils.ErrorLogger.Printf("subscription: resync %s: %v", sub.Collection(), err)
			failed = true
			continue
		}
		deliver(sub.Collection(), snapshot)
	}
	m.stale.Store(failed)
}

// Close menutup seluruh subscription. Idempoten.
func (m *SubscriptionManager) Close() {
	m.SetContext(nil, nil)
}

// Stale melaporkan apakah data lokal mungkin basi (ada snapshot yang
// gagal dibaca). Pulih lewat Resync yang berhasil.
func (m *SubscriptionManager) Stale() bool {
	return m.stale.Load()
}
