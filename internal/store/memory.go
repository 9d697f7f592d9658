package store

import (
	"context"
	"encoding/json"
	"sync"
)

// memoryStore is an in-memory EntityStore with the same snapshot and
// ordering semantics as the gorm-backed one. It backs unit tests of the
// mirror, rule engine, and janitor, which care about store behavior rather
// than persistence.
type memoryStore struct {
	mu     sync.Mutex
	docs   map[string]map[string]json.RawMessage
	subs   map[string]map[int]SnapshotFunc
	nextID int

	// failWrites, when set, makes mutations fail with a *StoreError.
	// Tests use it to exercise mid-cascade failures.
	failWrites error
}

// NewMemoryStore creates an empty in-memory entity store.
func NewMemoryStore() EntityStore {
	return &memoryStore{
		docs: make(map[string]map[string]json.RawMessage),
		subs: make(map[string]map[int]SnapshotFunc),
	}
}

// NewFailingMemoryStore creates a memory store whose mutations all fail with
// the given error, wrapped as *StoreError.
func NewFailingMemoryStore(err error) EntityStore {
	s := NewMemoryStore().(*memoryStore)
	s.failWrites = err
	return s
}

func (s *memoryStore) Write(ctx context.Context, collection, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return &StoreError{Op: "write", Collection: collection, Key: key, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWrites != nil {
		return &StoreError{Op: "write", Collection: collection, Key: key, Err: s.failWrites}
	}

	if s.docs[collection] == nil {
		s.docs[collection] = make(map[string]json.RawMessage)
	}
	s.docs[collection][key] = data
	s.broadcastLocked(collection)
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, collection, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWrites != nil {
		return &StoreError{Op: "delete", Collection: collection, Key: key, Err: s.failWrites}
	}

	if _, ok := s.docs[collection][key]; !ok {
		return nil
	}
	delete(s.docs[collection], key)
	s.broadcastLocked(collection)
	return nil
}

func (s *memoryStore) Snapshot(ctx context.Context, collection string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(collection), nil
}

func (s *memoryStore) Subscribe(collection string, fn SnapshotFunc) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	if s.subs[collection] == nil {
		s.subs[collection] = make(map[int]SnapshotFunc)
	}
	s.subs[collection][id] = fn

	fn(s.snapshotLocked(collection))

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs[collection], id)
	}
}

func (s *memoryStore) broadcastLocked(collection string) {
	snap := s.snapshotLocked(collection)
	for _, fn := range s.subs[collection] {
		fn(snap)
	}
}

func (s *memoryStore) snapshotLocked(collection string) Snapshot {
	if len(s.docs[collection]) == 0 {
		return nil
	}
	snap := make(Snapshot, len(s.docs[collection]))
	for k, v := range s.docs[collection] {
		snap[k] = v
	}
	return snap
}
