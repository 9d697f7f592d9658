package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"machine-booking-backend/internal/model"
	"machine-booking-backend/internal/rules"
)

type createClinicRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
	Contact string `json:"contact"`
}

type updateClinicRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Contact *string `json:"contact"`
}

// ListClinics handles the GET /api/clinics request.
func (h *Handler) ListClinics(c *gin.Context) {
	st := h.mirror.Snapshot()
	clinics := st.Clinics
	if clinics == nil {
		clinics = []model.Clinic{}
	}
	c.JSON(http.StatusOK, clinics)
}

// CreateClinic handles the POST /api/clinics request. The palette color is
// assigned by the rule engine and is not client-settable.
func (h *Handler) CreateClinic(c *gin.Context) {
	var req createClinicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	clinic, err := h.engine.AddClinic(c.Request.Context(), req.Name, req.Address, req.Contact)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, clinic)
}

// UpdateClinic handles the PUT /api/clinics/{id} request. Color is preserved
// regardless of the payload.
func (h *Handler) UpdateClinic(c *gin.Context) {
	var req updateClinicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	clinic, err := h.engine.UpdateClinic(c.Request.Context(), c.Param("id"), rules.ClinicFields{
		Name:    req.Name,
		Address: req.Address,
		Contact: req.Contact,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, clinic)
}

// DeleteClinic handles the DELETE /api/clinics/{id} request. Bookings
// referencing the clinic are cascade-deleted.
func (h *Handler) DeleteClinic(c *gin.Context) {
	if err := h.engine.DeleteClinic(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
