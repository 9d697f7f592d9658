// Package janitor compensates for the accepted race window around cascade
// deletes: concurrent writers or a failed mid-cascade delete can leave
// bookings referencing a machine or clinic that no longer exists. The
// janitor sweeps the mirrored state on an interval and re-issues those
// deletes until none remain.
package janitor

import (
	"context"
	"log"
	"time"

	"machine-booking-backend/internal/model"
	"machine-booking-backend/internal/parse"
	"machine-booking-backend/internal/store"
)

// StateSource supplies the current mirrored state to sweep over.
type StateSource interface {
	Snapshot() model.State
}

// Janitor periodically deletes dangling bookings.
type Janitor struct {
	store    store.EntityStore
	src      StateSource
	interval time.Duration
}

// New creates a janitor sweeping every interval.
func New(s store.EntityStore, src StateSource, interval time.Duration) *Janitor {
	return &Janitor{store: s, src: src, interval: interval}
}

// Run sweeps once immediately and then on every interval until ctx is done.
func (j *Janitor) Run(ctx context.Context) {
	log.Println("Starting janitor sweep loop...")

	j.SweepOnce(ctx)

	timer := time.NewTimer(j.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Janitor shutting down.")
			return
		case <-timer.C:
			j.SweepOnce(ctx)
			timer.Reset(j.interval)
		}
	}
}

// SweepOnce deletes every booking whose machine or clinic is gone and
// returns how many deletes were issued. Failed deletes are retried on the
// next sweep.
func (j *Janitor) SweepOnce(ctx context.Context) int {
	st := j.src.Snapshot()

	deleted := 0
	for key, b := range st.Bookings {
		_, machineOK := st.MachineByID(key.MachineID)
		_, clinicOK := st.ClinicByID(b.ClinicID)
		if machineOK && clinicOK {
			continue
		}

		if err := j.store.Delete(ctx, store.CollectionBookings, parse.FormatBookingKey(key)); err != nil {
			log.Printf("Error deleting dangling booking %s: %v", parse.FormatBookingKey(key), err)
			continue
		}
		deleted++
	}

	if deleted > 0 {
		log.Printf("Janitor removed %d dangling bookings", deleted)
	}
	return deleted
}
