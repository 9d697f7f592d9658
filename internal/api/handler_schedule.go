package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"machine-booking-backend/internal/model"
)

// allocationResponse is one allocated machine row in a day view, with the
// referenced machine and clinic joined in.
type allocationResponse struct {
	Machine  model.Machine `json:"machine"`
	Clinic   model.Clinic  `json:"clinic"`
	Notes    string        `json:"notes"`
	BookedAt time.Time     `json:"bookedAt"`
}

// dayScheduleResponse is the full allocation picture for one date.
type dayScheduleResponse struct {
	Date        model.Date           `json:"date"`
	Allocations []allocationResponse `json:"allocations"`
	Unallocated []model.Machine      `json:"unallocated"`
}

// buildDaySchedule derives a day view from a snapshot. Bookings whose
// machine or clinic is transiently missing are skipped, never an error.
func buildDaySchedule(st model.State, date model.Date) dayScheduleResponse {
	resp := dayScheduleResponse{
		Date:        date,
		Allocations: []allocationResponse{},
	}

	for _, b := range st.BookingsOn(date) {
		machine, ok := st.MachineByID(b.MachineID)
		if !ok {
			continue
		}
		clinic, ok := st.ClinicByID(b.ClinicID)
		if !ok {
			continue
		}
		resp.Allocations = append(resp.Allocations, allocationResponse{
			Machine:  machine,
			Clinic:   clinic,
			Notes:    b.Notes,
			BookedAt: b.BookedAt,
		})
	}

	resp.Unallocated = st.Unallocated(date)
	if resp.Unallocated == nil {
		resp.Unallocated = []model.Machine{}
	}
	return resp
}

// GetDaySchedule handles the GET /api/schedule/{date} request.
func (h *Handler) GetDaySchedule(c *gin.Context) {
	date, ok := dateParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, buildDaySchedule(h.mirror.Snapshot(), date))
}

type weekScheduleResponse struct {
	Dates []model.Date          `json:"dates"`
	Days  []dayScheduleResponse `json:"days"`
}

// GetWeekSchedule handles the GET /api/schedule/{date}/week request: the
// Monday-to-Sunday week containing the date, one day view per day.
func (h *Handler) GetWeekSchedule(c *gin.Context) {
	date, ok := dateParam(c)
	if !ok {
		return
	}

	st := h.mirror.Snapshot()
	week := model.WeekOf(date)

	resp := weekScheduleResponse{Dates: week, Days: make([]dayScheduleResponse, 0, len(week))}
	for _, d := range week {
		resp.Days = append(resp.Days, buildDaySchedule(st, d))
	}
	c.JSON(http.StatusOK, resp)
}
