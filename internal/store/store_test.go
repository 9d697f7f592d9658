package store

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"machine-booking-backend/internal/model"
)

// newTestStore opens an in-memory SQLite database with the documents table
// migrated, the same way the integration test does.
func newTestStore(t *testing.T) EntityStore {
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:store_%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Document{}))
	return NewGormStore(db)
}

type payload struct {
	Name string `json:"name"`
}

func TestGormStore_WriteSnapshotDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, CollectionMachines, "m1", payload{Name: "Laser A"}))
	require.NoError(t, s.Write(ctx, CollectionMachines, "m2", payload{Name: "Cryo B"}))

	snap, err := s.Snapshot(ctx, CollectionMachines)
	require.NoError(t, err)
	assert.Len(t, snap, 2)

	var p payload
	require.NoError(t, json.Unmarshal(snap["m1"], &p))
	assert.Equal(t, "Laser A", p.Name)

	// Overwrite replaces the document under the same key.
	require.NoError(t, s.Write(ctx, CollectionMachines, "m1", payload{Name: "Laser A2"}))
	snap, err = s.Snapshot(ctx, CollectionMachines)
	require.NoError(t, err)
	assert.Len(t, snap, 2)
	require.NoError(t, json.Unmarshal(snap["m1"], &p))
	assert.Equal(t, "Laser A2", p.Name)

	require.NoError(t, s.Delete(ctx, CollectionMachines, "m1"))
	snap, err = s.Snapshot(ctx, CollectionMachines)
	require.NoError(t, err)
	assert.Len(t, snap, 1)
	assert.NotContains(t, snap, "m1")
}

func TestGormStore_DeleteAbsentKeyIsNoop(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.Delete(context.Background(), CollectionBookings, "never-existed_2024-06-10"))
}

func TestGormStore_SubscribeDeliversImmediatelyAndOnChange(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, CollectionClinics, "c1", payload{Name: "Wellness Hub"}))

	var got []Snapshot
	unsub := s.Subscribe(CollectionClinics, func(snap Snapshot) {
		got = append(got, snap)
	})
	defer unsub()

	// Initial snapshot arrives synchronously on registration.
	require.Len(t, got, 1)
	assert.Len(t, got[0], 1)

	require.NoError(t, s.Write(ctx, CollectionClinics, "c2", payload{Name: "City Care"}))
	require.Len(t, got, 2)
	assert.Len(t, got[1], 2)

	require.NoError(t, s.Delete(ctx, CollectionClinics, "c1"))
	require.NoError(t, s.Delete(ctx, CollectionClinics, "c2"))
	require.Len(t, got, 4)
	// Empty collection is delivered as a nil snapshot.
	assert.Nil(t, got[3])
}

func TestGormStore_SubscribeEmptyCollectionDeliversNil(t *testing.T) {
	s := newTestStore(t)

	calls := 0
	unsub := s.Subscribe(CollectionBookings, func(snap Snapshot) {
		calls++
		assert.Nil(t, snap)
	})
	defer unsub()
	assert.Equal(t, 1, calls)
}

func TestGormStore_UnsubscribeIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	calls := 0
	unsub := s.Subscribe(CollectionMachines, func(Snapshot) { calls++ })
	require.Equal(t, 1, calls)

	unsub()
	unsub() // second call must be safe

	require.NoError(t, s.Write(ctx, CollectionMachines, "m1", payload{Name: "x"}))
	assert.Equal(t, 1, calls, "no notifications after unsubscribe")
}

func TestMemoryStore_MatchesContract(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	var got []Snapshot
	unsub := s.Subscribe(CollectionMachines, func(snap Snapshot) { got = append(got, snap) })
	defer unsub()
	require.Len(t, got, 1)
	assert.Nil(t, got[0])

	require.NoError(t, s.Write(ctx, CollectionMachines, "m1", payload{Name: "Laser A"}))
	require.Len(t, got, 2)
	assert.Len(t, got[1], 1)

	require.NoError(t, s.Delete(ctx, CollectionMachines, "m1"))
	require.Len(t, got, 3)
	assert.Nil(t, got[2])

	assert.NoError(t, s.Delete(ctx, CollectionMachines, "m1"), "absent delete is a no-op")
	assert.Len(t, got, 3, "no-op delete does not broadcast")
}

func TestFailingMemoryStore_WrapsStoreError(t *testing.T) {
	s := NewFailingMemoryStore(fmt.Errorf("connection refused"))
	err := s.Write(context.Background(), CollectionMachines, "m1", payload{})
	require.Error(t, err)
	assert.True(t, IsStoreError(err))
}
