package services

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yeremiapane/cleantrack/models"
	"github.com/yeremiapane/cleantrack/store"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAdapter(t *testing.T) *store.Adapter {
	t.Helper()
	dsn := fmt.Sprintf("file:services-%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.Department{},
		&models.Cleaner{},
		&models.Location{},
		&models.CleaningLog{},
		&models.DeletionRequest{},
		&models.DBChange{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return store.NewAdapter(db)
}

func seedTenants(t *testing.T, a *store.Adapter) {
	t.Helper()
	for _, dept := range []string{"dept-a", "dept-b"} {
		assert.NoError(t, a.Create(store.CollectionDepartments, &models.Department{
			ID: dept, Name: dept, ManagerName: "Mgr", Password: "pw",
		}))
		assert.NoError(t, a.Create(store.CollectionLocations, &models.Location{
			ID: "loc-" + dept, DepartmentID: dept,
			NameEn: "Loc " + dept, TargetDailyFrequency: 5,
		}))
	}
}

type recorder struct {
	mu        sync.Mutex
	snapshots map[string][]interface{}
}

func newRecorder() *recorder {
	return &recorder{snapshots: make(map[string][]interface{})}
}

func (r *recorder) deliver(collection string, snapshot interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots[collection] = append(r.snapshots[collection], snapshot)
}

func (r *recorder) count(collection string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snapshots[collection])
}

func (r *recorder) all(collection string) []interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]interface{}(nil), r.snapshots[collection]...)
}

func (r *recorder) last(collection string) interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	snaps := r.snapshots[collection]
	if len(snaps) == 0 {
		return nil
	}
	return snaps[len(snaps)-1]
}

func TestSetContextDeliversInitialSnapshots(t *testing.T) {
	a := setupAdapter(t)
	seedTenants(t, a)

	m := NewSubscriptionManager(a)
	defer m.Close()
	rec := newRecorder()

	deptA := "dept-a"
	m.SetContext(&Scope{
		DepartmentID: &deptA,
		Collections:  []string{store.CollectionLocations, store.CollectionCleaners},
	}, rec.deliver)

	assert.Equal(t, 1, rec.count(store.CollectionLocations))
	assert.Equal(t, 1, rec.count(store.CollectionCleaners))

	locs := rec.last(store.CollectionLocations).([]models.Location)
	assert.Len(t, locs, 1)
	assert.Equal(t, "dept-a", locs[0].DepartmentID)
	assert.False(t, m.Stale())
}

func TestSetContextTearsDownBeforeSetup(t *testing.T) {
	a := setupAdapter(t)
	seedTenants(t, a)
	monitor := store.NewChangeMonitor(a)
	assert.NoError(t, monitor.PollOnce())

	m := NewSubscriptionManager(a)
	defer m.Close()

	recA := newRecorder()
	deptA := "dept-a"
	m.SetContext(&Scope{
		DepartmentID: &deptA,
		Collections:  []string{store.CollectionLocations},
	}, recA.deliver)

	// Ganti konteks ke tenant lain. Delivery ke recorder lama harus
	// berhenti total walau ada write baru di dept-a.
	recB := newRecorder()
	deptB := "dept-b"
	m.SetContext(&Scope{
		DepartmentID: &deptB,
		Collections:  []string{store.CollectionLocations},
	}, recB.deliver)

	beforeA := recA.count(store.CollectionLocations)
	assert.NoError(t, a.Create(store.CollectionLocations, &models.Location{
		ID: "loc-a2", DepartmentID: "dept-a", NameEn: "New", TargetDailyFrequency: 3,
	}))
	assert.NoError(t, monitor.PollOnce())

	assert.Equal(t, beforeA, recA.count(store.CollectionLocations))

	// Dan recorder baru hanya pernah melihat dept-b.
	for _, snap := range recB.all(store.CollectionLocations) {
		for _, loc := range snap.([]models.Location) {
			assert.Equal(t, "dept-b", loc.DepartmentID)
		}
	}
}

func TestLiveDeliveryAfterWrite(t *testing.T) {
	a := setupAdapter(t)
	seedTenants(t, a)
	monitor := store.NewChangeMonitor(a)
	assert.NoError(t, monitor.PollOnce())

	m := NewSubscriptionManager(a)
	defer m.Close()
	rec := newRecorder()

	deptA := "dept-a"
	m.SetContext(&Scope{
		DepartmentID: &deptA,
		Collections:  []string{store.CollectionLocations},
	}, rec.deliver)
	assert.Equal(t, 1, rec.count(store.CollectionLocations))

	assert.NoError(t, a.Create(store.CollectionLocations, &models.Location{
		ID: "loc-a2", DepartmentID: "dept-a", NameEn: "New", TargetDailyFrequency: 3,
	}))
	assert.NoError(t, monitor.PollOnce())

	// Snapshot penuh pengganti, bukan delta.
	assert.Equal(t, 2, rec.count(store.CollectionLocations))
	locs := rec.last(store.CollectionLocations).([]models.Location)
	assert.Len(t, locs, 2)
}

func TestResyncRedeliversEveryCollection(t *testing.T) {
	a := setupAdapter(t)
	seedTenants(t, a)

	m := NewSubscriptionManager(a)
	defer m.Close()
	rec := newRecorder()

	deptA := "dept-a"
	m.SetContext(&Scope{
		DepartmentID: &deptA,
		Collections:  []string{store.CollectionLocations, store.CollectionCleaners},
	}, rec.deliver)

	m.Resync(rec.deliver)
	assert.Equal(t, 2, rec.count(store.CollectionLocations))
	assert.Equal(t, 2, rec.count(store.CollectionCleaners))
	assert.False(t, m.Stale())
}

func TestCloseStopsEverything(t *testing.T) {
	a := setupAdapter(t)
	seedTenants(t, a)
	monitor := store.NewChangeMonitor(a)
	assert.NoError(t, monitor.PollOnce())

	m := NewSubscriptionManager(a)
	rec := newRecorder()

	deptA := "dept-a"
	m.SetContext(&Scope{
		DepartmentID: &deptA,
		Collections:  []string{store.CollectionLocations},
	}, rec.deliver)

	m.Close()
	m.Close() // idempoten

	before := rec.count(store.CollectionLocations)
	assert.NoError(t, a.Create(store.CollectionLocations, &models.Location{
		ID: "loc-a2", DepartmentID: "dept-a", NameEn: "New", TargetDailyFrequency: 3,
	}))
	assert.NoError(t, monitor.PollOnce())
	assert.Equal(t, before, rec.count(store.CollectionLocations))
}

func TestSetContextNilScopeSubscribesNothing(t *testing.T) {
	a := setupAdapter(t)
	seedTenants(t, a)
	monitor := store.NewChangeMonitor(a)
	assert.NoError(t, monitor.PollOnce())

	m := NewSubscriptionManager(a)
	defer m.Close()
	rec := newRecorder()

	m.SetContext(nil, rec.deliver)

	assert.NoError(t, a.Create(store.CollectionLocations, &models.Location{
		ID: "loc-x", DepartmentID: "dept-a", NameEn: "X", TargetDailyFrequency: 1,
	}))
	assert.NoError(t, monitor.PollOnce())
	assert.Equal(t, 0, rec.count(store.CollectionLocations))
}
