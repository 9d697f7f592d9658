package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"machine-booking-backend/internal/model"
	"machine-booking-backend/internal/rules"
)

type createMachineRequest struct {
	Name string `json:"name" binding:"required"`
	Type string `json:"type"`
	Icon string `json:"icon"`
}

type updateMachineRequest struct {
	Name *string `json:"name"`
	Type *string `json:"type"`
	Icon *string `json:"icon"`
}

// ListMachines handles the GET /api/machines request.
func (h *Handler) ListMachines(c *gin.Context) {
	st := h.mirror.Snapshot()
	machines := st.Machines
	if machines == nil {
		machines = []model.Machine{}
	}
	c.JSON(http.StatusOK, machines)
}

// CreateMachine handles the POST /api/machines request.
func (h *Handler) CreateMachine(c *gin.Context) {
	var req createMachineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	m, err := h.engine.AddMachine(c.Request.Context(), req.Name, req.Type, req.Icon)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// UpdateMachine handles the PUT /api/machines/{id} request. Absent fields
// keep their previous values.
func (h *Handler) UpdateMachine(c *gin.Context) {
	var req updateMachineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	m, err := h.engine.UpdateMachine(c.Request.Context(), c.Param("id"), rules.MachineFields{
		Name: req.Name,
		Type: req.Type,
		Icon: req.Icon,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// DeleteMachine handles the DELETE /api/machines/{id} request. Bookings for
// the machine are cascade-deleted.
func (h *Handler) DeleteMachine(c *gin.Context) {
	if err := h.engine.DeleteMachine(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
