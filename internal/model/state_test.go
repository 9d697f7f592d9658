package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testState() State {
	machines := []Machine{
		{ID: "m1", Name: "Laser A"},
		{ID: "m2", Name: "Cryo B"},
		{ID: "m3", Name: "Ultra C"},
	}
	clinics := []Clinic{
		{ID: "c1", Name: "Wellness Hub", Color: ClinicColors[0]},
	}
	bookings := map[BookingKey]Booking{
		{MachineID: "m1", Date: "2024-06-10"}: {MachineID: "m1", Date: "2024-06-10", ClinicID: "c1"},
		{MachineID: "m2", Date: "2024-06-10"}: {MachineID: "m2", Date: "2024-06-10", ClinicID: "c1"},
		{MachineID: "m3", Date: "2024-06-11"}: {MachineID: "m3", Date: "2024-06-11", ClinicID: "c1"},
	}
	return State{Machines: machines, Clinics: clinics, Bookings: bookings}
}

func TestBookingFor(t *testing.T) {
	st := testState()

	b, ok := st.BookingFor("m1", "2024-06-10")
	require.True(t, ok)
	assert.Equal(t, "c1", b.ClinicID)

	_, ok = st.BookingFor("m1", "2024-06-11")
	assert.False(t, ok)
}

func TestBookingsOn(t *testing.T) {
	st := testState()

	on := st.BookingsOn("2024-06-10")
	require.Len(t, on, 2)
	assert.Equal(t, "m1", on[0].MachineID)
	assert.Equal(t, "m2", on[1].MachineID)

	assert.Empty(t, st.BookingsOn("2024-06-12"))
}

// Unallocated(d) and the set of booked machines partition the machine set.
func TestUnallocatedPartitionsMachines(t *testing.T) {
	st := testState()

	for _, date := range []Date{"2024-06-10", "2024-06-11", "2024-06-12"} {
		free := st.Unallocated(date)

		seen := make(map[string]bool)
		for _, m := range free {
			_, booked := st.BookingFor(m.ID, date)
			assert.False(t, booked, "unallocated machine %s has no booking on %s", m.ID, date)
			seen[m.ID] = true
		}
		for _, m := range st.Machines {
			if _, booked := st.BookingFor(m.ID, date); booked {
				assert.False(t, seen[m.ID], "machine %s cannot be both booked and unallocated", m.ID)
				seen[m.ID] = true
			}
		}
		assert.Len(t, seen, len(st.Machines), "every machine is booked or unallocated on %s", date)
	}
}

func TestValidMachineIcon(t *testing.T) {
	assert.True(t, ValidMachineIcon(DefaultMachineIcon))
	assert.True(t, ValidMachineIcon("🏥"))
	assert.False(t, ValidMachineIcon("🚀"))
	assert.False(t, ValidMachineIcon(""))
}
