package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"machine-booking-backend/internal/model"
)

// Collection names. These are the only three subtrees the application uses.
const (
	CollectionMachines = "machines"
	CollectionClinics  = "clinics"
	CollectionBookings = "bookings"
)

// Snapshot is the entire current content of one collection, keyed by
// document key. Subscribers always receive whole snapshots, never deltas;
// a nil Snapshot means the collection is empty.
type Snapshot map[string]json.RawMessage

// SnapshotFunc receives collection snapshots on a subscription.
type SnapshotFunc func(Snapshot)

// EntityStore is the single external collaborator of the booking core: a
// keyed document store with live full-snapshot subscriptions.
type EntityStore interface {
	// Write upserts a JSON document. Failures are reported as *StoreError.
	Write(ctx context.Context, collection, key string, value any) error

	// Delete removes a document. Deleting an absent key is a no-op success.
	Delete(ctx context.Context, collection, key string) error

	// Snapshot returns the full current content of a collection.
	Snapshot(ctx context.Context, collection string) (Snapshot, error)

	// Subscribe registers fn to be called with the current snapshot
	// immediately and again after every change to the collection.
	// Notifications for one collection arrive in apply order. Callbacks
	// must not call back into the store. The returned unsubscribe func is
	// idempotent.
	Subscribe(collection string, fn SnapshotFunc) (unsubscribe func())
}

// StoreError wraps a connectivity or persistence failure from the store.
type StoreError struct {
	Op         string
	Collection string
	Key        string
	Err        error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s %s/%s: %v", e.Op, e.Collection, e.Key, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// IsStoreError reports whether err originated in the entity store.
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}

// gormStore implements EntityStore on a single documents table, so the same
// code runs against sqlite and postgres.
type gormStore struct {
	db *gorm.DB

	// mu serializes mutation+broadcast so subscribers observe snapshots in
	// the order the store applied them.
	mu     sync.Mutex
	subs   map[string]map[int]SnapshotFunc
	nextID int
}

// NewGormStore creates a new GORM-backed entity store.
func NewGormStore(db *gorm.DB) EntityStore {
	return &gormStore{
		db:   db,
		subs: make(map[string]map[int]SnapshotFunc),
	}
}

// Write upserts a document and broadcasts the new collection snapshot.
func (s *gormStore) Write(ctx context.Context, collection, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return &StoreError{Op: "write", Collection: collection, Key: key, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := model.Document{Collection: collection, Key: key, Data: data}
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "collection"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&doc).Error; err != nil {
		return &StoreError{Op: "write", Collection: collection, Key: key, Err: err}
	}

	s.broadcastLocked(ctx, collection)
	return nil
}

// Delete removes a document and broadcasts. Absent keys succeed silently.
func (s *gormStore) Delete(ctx context.Context, collection, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.db.WithContext(ctx).
		Where("collection = ? AND key = ?", collection, key).
		Delete(&model.Document{})
	if res.Error != nil {
		return &StoreError{Op: "delete", Collection: collection, Key: key, Err: res.Error}
	}

	if res.RowsAffected > 0 {
		s.broadcastLocked(ctx, collection)
	}
	return nil
}

// Snapshot returns the full current content of a collection.
func (s *gormStore) Snapshot(ctx context.Context, collection string) (Snapshot, error) {
	snap, err := s.loadSnapshot(ctx, collection)
	if err != nil {
		return nil, &StoreError{Op: "snapshot", Collection: collection, Err: err}
	}
	return snap, nil
}

// Subscribe registers a live listener. The initial snapshot is delivered
// synchronously before Subscribe returns, mirroring the store contract of
// "callback fires immediately on registration".
func (s *gormStore) Subscribe(collection string, fn SnapshotFunc) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	if s.subs[collection] == nil {
		s.subs[collection] = make(map[int]SnapshotFunc)
	}
	s.subs[collection][id] = fn

	snap, err := s.loadSnapshot(context.Background(), collection)
	if err != nil {
		// The subscriber still gets its initial callback; an empty snapshot
		// is the availability-over-consistency answer here.
		log.Printf("Warning: could not load initial %s snapshot: %v", collection, err)
		snap = nil
	}
	fn(snap)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs[collection], id)
	}
}

// broadcastLocked pushes the current snapshot of a collection to all of its
// subscribers. Caller holds s.mu.
func (s *gormStore) broadcastLocked(ctx context.Context, collection string) {
	if len(s.subs[collection]) == 0 {
		return
	}

	snap, err := s.loadSnapshot(ctx, collection)
	if err != nil {
		// Subscribers keep their previous snapshot; the next successful
		// mutation re-broadcasts.
		log.Printf("Warning: could not load %s snapshot for broadcast: %v", collection, err)
		return
	}
	for _, fn := range s.subs[collection] {
		fn(snap)
	}
}

func (s *gormStore) loadSnapshot(ctx context.Context, collection string) (Snapshot, error) {
	var docs []model.Document
	if err := s.db.WithContext(ctx).
		Where("collection = ?", collection).
		Find(&docs).Error; err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}

	snap := make(Snapshot, len(docs))
	for _, d := range docs {
		snap[d.Key] = json.RawMessage(d.Data)
	}
	return snap, nil
}
