package parse

import (
	"fmt"
	"strings"

	"machine-booking-backend/internal/model"
)

// Booking documents are addressed as "<machineID>_<YYYY-MM-DD>". The date
// suffix is fixed-width and validated, so the split point is unambiguous
// even when a machine id itself contains an underscore.

const dateSuffixLen = len(model.DateLayout) // "2006-01-02" -> 10

// FormatBookingKey renders the store key for a booking identity.
func FormatBookingKey(k model.BookingKey) string {
	return k.MachineID + "_" + string(k.Date)
}

// ParseBookingKey dissects a store key back into its composite identity.
func ParseBookingKey(raw string) (model.BookingKey, error) {
	cut := len(raw) - dateSuffixLen - 1
	if cut < 1 || raw[cut] != '_' {
		return model.BookingKey{}, fmt.Errorf("malformed booking key: %q", raw)
	}

	machineID := raw[:cut]
	date, err := model.ParseDate(raw[cut+1:])
	if err != nil {
		return model.BookingKey{}, fmt.Errorf("malformed booking key %q: %w", raw, err)
	}

	if strings.TrimSpace(machineID) == "" {
		return model.BookingKey{}, fmt.Errorf("booking key %q has empty machine id", raw)
	}

	return model.BookingKey{MachineID: machineID, Date: date}, nil
}
