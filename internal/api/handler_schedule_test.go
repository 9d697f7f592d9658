package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"machine-booking-backend/internal/model"
)

func seedAllocation(t *testing.T, a *testAPI, date string) (model.Machine, model.Clinic) {
	t.Helper()

	machine := decodeBody[model.Machine](t, a.do(t, "POST", "/api/machines", gin.H{"name": "Laser A"}))
	clinic := decodeBody[model.Clinic](t, a.do(t, "POST", "/api/clinics", gin.H{"name": "Wellness Hub"}))

	w := a.do(t, "PUT", "/api/bookings", gin.H{
		"machineId": machine.ID,
		"clinicId":  clinic.ID,
		"date":      date,
		"notes":     "morning block",
	})
	require.Equal(t, http.StatusOK, w.Code)
	return machine, clinic
}

func TestGetDaySchedule(t *testing.T) {
	a := newTestAPI(t)
	machine, clinic := seedAllocation(t, a, "2026-09-01")

	// A second machine with no booking shows up as unallocated.
	idle := decodeBody[model.Machine](t, a.do(t, "POST", "/api/machines", gin.H{"name": "Ultrasound"}))

	w := a.do(t, "GET", "/api/schedule/2026-09-01", nil)
	require.Equal(t, http.StatusOK, w.Code)

	day := decodeBody[dayScheduleResponse](t, w)
	assert.Equal(t, model.Date("2026-09-01"), day.Date)
	require.Len(t, day.Allocations, 1)
	assert.Equal(t, machine.ID, day.Allocations[0].Machine.ID)
	assert.Equal(t, clinic.ID, day.Allocations[0].Clinic.ID)
	assert.Equal(t, "morning block", day.Allocations[0].Notes)
	require.Len(t, day.Unallocated, 1)
	assert.Equal(t, idle.ID, day.Unallocated[0].ID)
}

func TestGetDayScheduleBadDate(t *testing.T) {
	a := newTestAPI(t)

	w := a.do(t, "GET", "/api/schedule/not-a-date", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetWeekSchedule(t *testing.T) {
	a := newTestAPI(t)
	seedAllocation(t, a, "2026-09-01")

	// 2026-09-01 is a Tuesday; its week runs Monday 08-31 through Sunday 09-06.
	w := a.do(t, "GET", "/api/schedule/2026-09-03/week", nil)
	require.Equal(t, http.StatusOK, w.Code)

	week := decodeBody[weekScheduleResponse](t, w)
	require.Len(t, week.Dates, 7)
	assert.Equal(t, model.Date("2026-08-31"), week.Dates[0])
	assert.Equal(t, model.Date("2026-09-06"), week.Dates[6])

	require.Len(t, week.Days, 7)
	assert.Len(t, week.Days[1].Allocations, 1)
	assert.Empty(t, week.Days[0].Allocations)
}

func TestListBookingsSorted(t *testing.T) {
	a := newTestAPI(t)

	machine := decodeBody[model.Machine](t, a.do(t, "POST", "/api/machines", gin.H{"name": "Laser A"}))
	clinic := decodeBody[model.Clinic](t, a.do(t, "POST", "/api/clinics", gin.H{"name": "Wellness Hub"}))

	for _, date := range []string{"2026-09-02", "2026-09-01"} {
		w := a.do(t, "PUT", "/api/bookings", gin.H{
			"machineId": machine.ID,
			"clinicId":  clinic.ID,
			"date":      date,
		})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := a.do(t, "GET", "/api/bookings", nil)
	require.Equal(t, http.StatusOK, w.Code)

	bookings := decodeBody[[]model.Booking](t, w)
	require.Len(t, bookings, 2)
	assert.Equal(t, model.Date("2026-09-01"), bookings[0].Date)
	assert.Equal(t, model.Date("2026-09-02"), bookings[1].Date)
}

func TestRemoveBookingIdempotent(t *testing.T) {
	a := newTestAPI(t)
	machine, _ := seedAllocation(t, a, "2026-09-01")

	path := "/api/bookings/" + machine.ID + "/2026-09-01"
	assert.Equal(t, http.StatusNoContent, a.do(t, "DELETE", path, nil).Code)
	assert.Equal(t, http.StatusNoContent, a.do(t, "DELETE", path, nil).Code)

	w := a.do(t, "DELETE", "/api/bookings/"+machine.ID+"/09-01-2026", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStreamEventsEmitsInitialEvent(t *testing.T) {
	a := newTestAPI(t)
	seedAllocation(t, a, "2026-09-01")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", "/api/events", nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	assert.True(t, strings.Contains(w.Body.String(), "event:change"))
	assert.True(t, strings.Contains(w.Body.String(), `"bookings":1`))
}
