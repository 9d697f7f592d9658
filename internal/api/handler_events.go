package api

import (
	"io"

	"github.com/gin-gonic/gin"

	"machine-booking-backend/internal/model"
)

// changeEvent summarizes a mirrored-state change for SSE clients. The UI
// only needs a "something changed" signal plus coarse counts to decide what
// to refetch.
type changeEvent struct {
	Machines int `json:"machines"`
	Clinics  int `json:"clinics"`
	Bookings int `json:"bookings"`
}

func eventFor(st model.State) changeEvent {
	return changeEvent{
		Machines: len(st.Machines),
		Clinics:  len(st.Clinics),
		Bookings: len(st.Bookings),
	}
}

// StreamEvents handles the GET /api/events request: a server-sent-events
// feed emitting one event per applied store snapshot until the client
// disconnects. The mirror observer is unsubscribed on disconnect, so
// departed clients do not leak.
func (h *Handler) StreamEvents(c *gin.Context) {
	events := make(chan changeEvent, 8)
	unsub := h.mirror.Notify(func(st model.State) {
		select {
		case events <- eventFor(st):
		default:
			// Slow client; it catches up on the next change.
		}
	})
	defer unsub()

	c.Header("Cache-Control", "no-cache")

	// Initial event so clients render without waiting for a change.
	c.SSEvent("change", eventFor(h.mirror.Snapshot()))
	c.Writer.Flush()

	clientGone := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case ev := <-events:
			c.SSEvent("change", ev)
			return true
		case <-clientGone:
			return false
		}
	})
}
