// Package rules implements the booking rule engine: validation, id and
// color assignment, the one-booking-per-machine-per-day overwrite semantics,
// and cascade deletes. Operations are fire-and-observe: they return once the
// store write is issued, and the mirror catches up on the next snapshot.
package rules

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"machine-booking-backend/internal/model"
	"machine-booking-backend/internal/parse"
	"machine-booking-backend/internal/store"
)

// StateSource supplies the current mirrored state for validation, palette
// indexing, and cascade scans.
type StateSource interface {
	Snapshot() model.State
}

// Dispatcher receives the id of a machine whose schedule changed. The
// notification worker pool implements it.
type Dispatcher interface {
	Dispatch(machineID string)
}

// Engine validates operator intents and turns them into entity-store writes.
type Engine struct {
	store      store.EntityStore
	src        StateSource
	dispatcher Dispatcher // may be nil

	now   func() time.Time
	newID func() string
}

// NewEngine creates a rule engine over the given store and state source.
// dispatcher may be nil when push notifications are disabled.
func NewEngine(s store.EntityStore, src StateSource, dispatcher Dispatcher) *Engine {
	return &Engine{
		store:      s,
		src:        src,
		dispatcher: dispatcher,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// MachineFields carries the updatable machine attributes. Nil fields keep
// their previous value.
type MachineFields struct {
	Name *string
	Type *string
	Icon *string
}

// ClinicFields carries the updatable clinic attributes. Nil fields keep
// their previous value. Color is deliberately absent: it is assigned once at
// creation and never reassigned.
type ClinicFields struct {
	Name    *string
	Address *string
	Contact *string
}

// AddMachine registers a new machine. Name is required; an empty icon gets
// the default, an icon outside the fixed set is rejected.
func (e *Engine) AddMachine(ctx context.Context, name, machineType, icon string) (model.Machine, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Machine{}, fmt.Errorf("machine name is required: %w", model.ErrValidation)
	}
	if icon == "" {
		icon = model.DefaultMachineIcon
	} else if !model.ValidMachineIcon(icon) {
		return model.Machine{}, fmt.Errorf("unknown machine icon %q: %w", icon, model.ErrValidation)
	}

	m := model.Machine{
		ID:        e.newID(),
		Name:      name,
		Type:      machineType,
		Icon:      icon,
		CreatedAt: e.now().UTC(),
	}
	if err := e.store.Write(ctx, store.CollectionMachines, m.ID, m); err != nil {
		return model.Machine{}, err
	}
	return m, nil
}

// UpdateMachine overwrites the mutable fields of an existing machine.
// The id is immutable and an unknown id is rejected rather than resurrected.
func (e *Engine) UpdateMachine(ctx context.Context, id string, fields MachineFields) (model.Machine, error) {
	m, ok := e.src.Snapshot().MachineByID(id)
	if !ok {
		return model.Machine{}, fmt.Errorf("machine %s: %w", id, model.ErrNotFound)
	}

	if fields.Name != nil {
		m.Name = strings.TrimSpace(*fields.Name)
	}
	if fields.Type != nil {
		m.Type = *fields.Type
	}
	if fields.Icon != nil {
		m.Icon = *fields.Icon
	}

	if m.Name == "" {
		return model.Machine{}, fmt.Errorf("machine name is required: %w", model.ErrValidation)
	}
	if m.Icon == "" {
		m.Icon = model.DefaultMachineIcon
	} else if !model.ValidMachineIcon(m.Icon) {
		return model.Machine{}, fmt.Errorf("unknown machine icon %q: %w", m.Icon, model.ErrValidation)
	}

	if err := e.store.Write(ctx, store.CollectionMachines, m.ID, m); err != nil {
		return model.Machine{}, err
	}
	return m, nil
}

// DeleteMachine removes a machine and cascades over every booking keyed by
// it. Bookings have no secondary index, so this scans the booking map.
// Cascade deletes are issued independently; a failure leaves the remaining
// stale bookings for the janitor to retry.
func (e *Engine) DeleteMachine(ctx context.Context, id string) error {
	if err := e.store.Delete(ctx, store.CollectionMachines, id); err != nil {
		return err
	}

	var firstErr error
	for key := range e.src.Snapshot().Bookings {
		if key.MachineID != id {
			continue
		}
		if err := e.store.Delete(ctx, store.CollectionBookings, parse.FormatBookingKey(key)); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	e.dispatch(id)
	return firstErr
}

// AddClinic registers a new clinic and assigns its palette color from the
// current clinic count. Name is required.
func (e *Engine) AddClinic(ctx context.Context, name, address, contact string) (model.Clinic, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Clinic{}, fmt.Errorf("clinic name is required: %w", model.ErrValidation)
	}

	count := len(e.src.Snapshot().Clinics)
	c := model.Clinic{
		ID:        e.newID(),
		Name:      name,
		Address:   address,
		Contact:   contact,
		Color:     model.ClinicColors[count%len(model.ClinicColors)],
		CreatedAt: e.now().UTC(),
	}
	if err := e.store.Write(ctx, store.CollectionClinics, c.ID, c); err != nil {
		return model.Clinic{}, err
	}
	return c, nil
}

// UpdateClinic overwrites the mutable fields of an existing clinic. Color
// and creation time are always preserved.
func (e *Engine) UpdateClinic(ctx context.Context, id string, fields ClinicFields) (model.Clinic, error) {
	c, ok := e.src.Snapshot().ClinicByID(id)
	if !ok {
		return model.Clinic{}, fmt.Errorf("clinic %s: %w", id, model.ErrNotFound)
	}

	if fields.Name != nil {
		c.Name = strings.TrimSpace(*fields.Name)
	}
	if fields.Address != nil {
		c.Address = *fields.Address
	}
	if fields.Contact != nil {
		c.Contact = *fields.Contact
	}

	if c.Name == "" {
		return model.Clinic{}, fmt.Errorf("clinic name is required: %w", model.ErrValidation)
	}

	if err := e.store.Write(ctx, store.CollectionClinics, c.ID, c); err != nil {
		return model.Clinic{}, err
	}
	return c, nil
}

// DeleteClinic removes a clinic and cascades over every booking referencing
// it, which requires scanning bookings by value rather than by key.
func (e *Engine) DeleteClinic(ctx context.Context, id string) error {
	if err := e.store.Delete(ctx, store.CollectionClinics, id); err != nil {
		return err
	}

	var firstErr error
	for key, b := range e.src.Snapshot().Bookings {
		if b.ClinicID != id {
			continue
		}
		if err := e.store.Delete(ctx, store.CollectionBookings, parse.FormatBookingKey(key)); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		e.dispatch(key.MachineID)
	}
	return firstErr
}

// SetBooking writes or overwrites the booking for (machineID, date). An
// overwrite replaces clinic and notes and resets BookedAt to the write time.
func (e *Engine) SetBooking(ctx context.Context, machineID, clinicID string, date model.Date, notes string) (model.Booking, error) {
	if machineID == "" {
		return model.Booking{}, fmt.Errorf("booking machine is required: %w", model.ErrValidation)
	}
	if clinicID == "" {
		return model.Booking{}, fmt.Errorf("booking clinic is required: %w", model.ErrValidation)
	}
	if !date.Valid() {
		return model.Booking{}, fmt.Errorf("booking date %q is not a valid date: %w", date, model.ErrValidation)
	}

	st := e.src.Snapshot()
	if _, ok := st.MachineByID(machineID); !ok {
		return model.Booking{}, fmt.Errorf("booking references unknown machine %s: %w", machineID, model.ErrValidation)
	}
	if _, ok := st.ClinicByID(clinicID); !ok {
		return model.Booking{}, fmt.Errorf("booking references unknown clinic %s: %w", clinicID, model.ErrValidation)
	}

	b := model.Booking{
		MachineID: machineID,
		Date:      date,
		ClinicID:  clinicID,
		Notes:     notes,
		BookedAt:  e.now().UTC(),
	}
	if err := e.store.Write(ctx, store.CollectionBookings, parse.FormatBookingKey(b.Key()), b); err != nil {
		return model.Booking{}, err
	}

	e.dispatch(machineID)
	return b, nil
}

// RemoveBooking deletes the booking at (machineID, date). Removing an absent
// booking succeeds.
func (e *Engine) RemoveBooking(ctx context.Context, machineID string, date model.Date) error {
	if machineID == "" {
		return fmt.Errorf("booking machine is required: %w", model.ErrValidation)
	}
	if !date.Valid() {
		return fmt.Errorf("booking date %q is not a valid date: %w", date, model.ErrValidation)
	}

	key := model.BookingKey{MachineID: machineID, Date: date}
	if err := e.store.Delete(ctx, store.CollectionBookings, parse.FormatBookingKey(key)); err != nil {
		return err
	}

	e.dispatch(machineID)
	return nil
}

func (e *Engine) dispatch(machineID string) {
	if e.dispatcher != nil {
		e.dispatcher.Dispatch(machineID)
	}
}
