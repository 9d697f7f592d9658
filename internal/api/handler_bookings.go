package api

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"machine-booking-backend/internal/model"
)

type setBookingRequest struct {
	MachineID string `json:"machineId" binding:"required"`
	ClinicID  string `json:"clinicId" binding:"required"`
	Date      string `json:"date" binding:"required"`
	Notes     string `json:"notes"`
}

// ListBookings handles the GET /api/bookings request, returning every
// booking ordered by date then machine.
func (h *Handler) ListBookings(c *gin.Context) {
	st := h.mirror.Snapshot()

	bookings := make([]model.Booking, 0, len(st.Bookings))
	for _, b := range st.Bookings {
		bookings = append(bookings, b)
	}
	sort.Slice(bookings, func(i, j int) bool {
		if bookings[i].Date != bookings[j].Date {
			return bookings[i].Date < bookings[j].Date
		}
		return bookings[i].MachineID < bookings[j].MachineID
	})
	c.JSON(http.StatusOK, bookings)
}

// SetBooking handles the PUT /api/bookings request. Writing to an already
// booked (machine, date) replaces the prior booking.
func (h *Handler) SetBooking(c *gin.Context) {
	var req setBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := h.engine.SetBooking(c.Request.Context(), req.MachineID, req.ClinicID, model.Date(req.Date), req.Notes)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// RemoveBooking handles the DELETE /api/bookings/{machine_id}/{date}
// request. Removing an absent booking still answers 204.
func (h *Handler) RemoveBooking(c *gin.Context) {
	date, err := model.ParseDate(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date. Use YYYY-MM-DD."})
		return
	}

	if err := h.engine.RemoveBooking(c.Request.Context(), c.Param("machine_id"), date); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
