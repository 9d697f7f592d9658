// Package mirror keeps an in-memory copy of the three entity-store
// collections eventually consistent with the store. Every notification
// replaces the local copy of that collection wholesale; the mirror never
// merges partial updates and never originates state of its own.
package mirror

import (
	"context"
	"encoding/json"
	"log"
	"sort"
	"sync"
	"time"

	"machine-booking-backend/internal/model"
	"machine-booking-backend/internal/parse"
	"machine-booking-backend/internal/store"
)

// Mirror subscribes to the machines, clinics, and bookings collections and
// exposes the latest decoded snapshot plus a change-observer hub.
type Mirror struct {
	store store.EntityStore

	mu    sync.RWMutex
	state model.State

	ready     chan struct{}
	readyOnce sync.Once
	closeOnce sync.Once
	unsubs    []func()

	obsMu     sync.Mutex
	observers map[int]func(model.State)
	nextObsID int
}

// New creates a mirror over the given store. Call Start to begin syncing.
func New(s store.EntityStore) *Mirror {
	return &Mirror{
		store:     s,
		state:     model.State{Bookings: make(map[model.BookingKey]model.Booking)},
		ready:     make(chan struct{}),
		observers: make(map[int]func(model.State)),
	}
}

// Start opens the three live subscriptions. The initial snapshots are applied
// before Start returns when the store delivers them synchronously.
func (m *Mirror) Start() {
	m.unsubs = append(m.unsubs,
		m.store.Subscribe(store.CollectionMachines, m.applyMachines),
		m.store.Subscribe(store.CollectionClinics, m.applyClinics),
		m.store.Subscribe(store.CollectionBookings, m.applyBookings),
	)
}

// WaitReady blocks until the first bookings snapshot has been applied, the
// grace period elapses, or ctx is done. A false return means the grace period
// expired first: callers proceed with possibly empty state rather than hang.
func (m *Mirror) WaitReady(ctx context.Context, grace time.Duration) bool {
	timer := time.NewTimer(grace)
	defer timer.Stop()

	select {
	case <-m.ready:
		return true
	case <-timer.C:
		log.Printf("Warning: no store snapshot within %s; continuing with empty state", grace)
		return false
	case <-ctx.Done():
		return false
	}
}

// Close tears down all subscriptions. Safe to call more than once.
func (m *Mirror) Close() {
	m.closeOnce.Do(func() {
		for _, unsub := range m.unsubs {
			unsub()
		}
		m.unsubs = nil
	})
}

// Snapshot returns a copy of the current mirrored state. The copy is safe to
// hold across further mirror updates.
func (m *Mirror) Snapshot() model.State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyState(m.state)
}

// Notify registers an observer invoked with the new state after every applied
// snapshot. The returned unsubscribe func is idempotent.
func (m *Mirror) Notify(fn func(model.State)) (unsubscribe func()) {
	m.obsMu.Lock()
	id := m.nextObsID
	m.nextObsID++
	m.observers[id] = fn
	m.obsMu.Unlock()

	return func() {
		m.obsMu.Lock()
		delete(m.observers, id)
		m.obsMu.Unlock()
	}
}

func (m *Mirror) applyMachines(snap store.Snapshot) {
	machines := make([]model.Machine, 0, len(snap))
	for key, raw := range snap {
		var mc model.Machine
		if err := json.Unmarshal(raw, &mc); err != nil {
			log.Printf("Warning: skipping undecodable machine document %q: %v", key, err)
			continue
		}
		machines = append(machines, mc)
	}
	sortByCreation(machines, func(mc model.Machine) (time.Time, string) { return mc.CreatedAt, mc.ID })

	m.mu.Lock()
	m.state.Machines = machines
	st := copyState(m.state)
	m.mu.Unlock()

	m.publish(st)
}

func (m *Mirror) applyClinics(snap store.Snapshot) {
	clinics := make([]model.Clinic, 0, len(snap))
	for key, raw := range snap {
		var c model.Clinic
		if err := json.Unmarshal(raw, &c); err != nil {
			log.Printf("Warning: skipping undecodable clinic document %q: %v", key, err)
			continue
		}
		clinics = append(clinics, c)
	}
	sortByCreation(clinics, func(c model.Clinic) (time.Time, string) { return c.CreatedAt, c.ID })

	m.mu.Lock()
	m.state.Clinics = clinics
	st := copyState(m.state)
	m.mu.Unlock()

	m.publish(st)
}

func (m *Mirror) applyBookings(snap store.Snapshot) {
	bookings := make(map[model.BookingKey]model.Booking, len(snap))
	for key, raw := range snap {
		k, err := parse.ParseBookingKey(key)
		if err != nil {
			log.Printf("Warning: skipping booking with malformed key: %v", err)
			continue
		}
		var b model.Booking
		if err := json.Unmarshal(raw, &b); err != nil {
			log.Printf("Warning: skipping undecodable booking document %q: %v", key, err)
			continue
		}
		// The key is authoritative for identity; the payload may predate it.
		b.MachineID = k.MachineID
		b.Date = k.Date
		bookings[k] = b
	}

	m.mu.Lock()
	m.state.Bookings = bookings
	st := copyState(m.state)
	m.mu.Unlock()

	// Loading ends once bookings have arrived at least once, even when the
	// collection is empty.
	m.readyOnce.Do(func() { close(m.ready) })

	m.publish(st)
}

func (m *Mirror) publish(st model.State) {
	m.obsMu.Lock()
	defer m.obsMu.Unlock()
	for _, fn := range m.observers {
		fn(st)
	}
}

func copyState(s model.State) model.State {
	out := model.State{
		Machines: make([]model.Machine, len(s.Machines)),
		Clinics:  make([]model.Clinic, len(s.Clinics)),
		Bookings: make(map[model.BookingKey]model.Booking, len(s.Bookings)),
	}
	copy(out.Machines, s.Machines)
	copy(out.Clinics, s.Clinics)
	for k, b := range s.Bookings {
		out.Bookings[k] = b
	}
	return out
}

// sortByCreation orders a collection by creation time, breaking ties by id so
// listings are stable across snapshots.
func sortByCreation[T any](items []T, keyOf func(T) (time.Time, string)) {
	sort.Slice(items, func(i, j int) bool {
		ti, idi := keyOf(items[i])
		tj, idj := keyOf(items[j])
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return idi < idj
	})
}
