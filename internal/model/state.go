package model

import "sort"

// State is one mirrored snapshot of the three collections. All methods are
// pure derivations over the snapshot; a State is never mutated after the
// synchronization layer hands it out.
type State struct {
	Machines []Machine
	Clinics  []Clinic
	Bookings map[BookingKey]Booking
}

// BookingFor returns the booking for a machine on a date, if any.
func (s State) BookingFor(machineID string, date Date) (Booking, bool) {
	b, ok := s.Bookings[BookingKey{MachineID: machineID, Date: date}]
	return b, ok
}

// BookingsOn returns all bookings on the given date, ordered by machine id.
func (s State) BookingsOn(date Date) []Booking {
	var out []Booking
	for k, b := range s.Bookings {
		if k.Date == date {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MachineID < out[j].MachineID })
	return out
}

// Unallocated returns the machines that have no booking on the given date,
// in machine listing order.
func (s State) Unallocated(date Date) []Machine {
	var out []Machine
	for _, m := range s.Machines {
		if _, booked := s.BookingFor(m.ID, date); !booked {
			out = append(out, m)
		}
	}
	return out
}

// MachineByID looks a machine up in the snapshot.
func (s State) MachineByID(id string) (Machine, bool) {
	for _, m := range s.Machines {
		if m.ID == id {
			return m, true
		}
	}
	return Machine{}, false
}

// ClinicByID looks a clinic up in the snapshot.
func (s State) ClinicByID(id string) (Clinic, bool) {
	for _, c := range s.Clinics {
		if c.ID == id {
			return c, true
		}
	}
	return Clinic{}, false
}
