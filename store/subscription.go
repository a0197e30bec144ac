package store

import "sync"

// Subscription adalah satu live query ter-scope. Cancel bersifat
// idempoten; begitu Cancel kembali, tidak ada delivery lagi yang akan
// berjalan (delivery dan cancel berbagi mutex yang sama).
type Subscription struct {
	id         uint64
	collection string
	filter     Filter
	onChange   func(interface{})

	mu       sync.Mutex
	canceled bool
}

func (s *Subscription) Collection() string { return s.collection }

func (s *Subscription) Filter() Filter { return s.filter }

func (s *Subscription) Cancel() {
	s.mu.Lock()
	s.canceled = true
	s.mu.Unlock()
}

func (s *Subscription) deliver(snapshot interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.canceled {
		return
	}
	s.onChange(snapshot)
}

// Subscribe mendaftarkan live query. Callback menerima snapshot penuh
// koleksi ter-filter pada setiap perubahan (replace, bukan merge);
// snapshot awal dikirim oleh pemanggil lewat Resync/Snapshot, bukan di
// sini, supaya registrasi tidak memblok.
func (a *Adapter) Subscribe(collection string, f Filter, onChange func(interface{})) *Subscription {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nextID++
	sub := &Subscription{
		id:         a.nextID,
		collection: collection,
		filter:     f,
		onChange:   onChange,
	}
	a.subs[sub.id] = sub
	return sub
}

// Unsubscribe melepas subscription dari registry. Cancel saja sudah
// menghentikan delivery; ini sekadar membersihkan map.
func (a *Adapter) Unsubscribe(sub *Subscription) {
	sub.Cancel()
	a.mu.Lock()
	delete(a.subs, sub.id)
	a.mu.Unlock()
}

// subscribersFor mengembalikan subscription yang perlu dikabari ketika
// dokumen milik departmentID di collection berubah. Subscriber unscoped
// cocok dengan perubahan dari tenant mana pun.
func (a *Adapter) subscribersFor(collection, departmentID string) []*Subscription {
	a.mu.RLock()
	defer a.mu.RUnlock()
	var out []*Subscription
	for _, sub := range a.subs {
		if sub.collection != collection {
			continue
		}
		if departmentID == "" || sub.filter.matches(departmentID) {
			out = append(out, sub)
		}
	}
	return out
}
