package model

import "time"

// BookingKey is the composite identity of a booking: one machine on one
// calendar day. It is a comparable struct so it can key a map directly;
// the string form used for store paths lives in the parse package.
type BookingKey struct {
	MachineID string
	Date      Date
}

// Booking is an allocation record binding one machine to one clinic on one
// date. Writing a booking with an existing key replaces the prior record
// wholesale (last write wins); BookedAt is reset on every write.
type Booking struct {
	MachineID string `json:"machineId"`
	Date      Date   `json:"date"`
	ClinicID  string `json:"clinicId"`
	Notes     string `json:"notes"`

	BookedAt time.Time `json:"bookedAt"`
}

// Key returns the composite identity of the booking.
func (b Booking) Key() BookingKey {
	return BookingKey{MachineID: b.MachineID, Date: b.Date}
}
