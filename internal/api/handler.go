package api

import (
	"errors"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"machine-booking-backend/internal/mirror"
	"machine-booking-backend/internal/model"
	"machine-booking-backend/internal/rules"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	engine  *rules.Engine
	mirror  *mirror.Mirror
	db      *gorm.DB
	webpush *webpush.Options
}

// NewHandler creates a new API handler.
func NewHandler(engine *rules.Engine, m *mirror.Mirror, db *gorm.DB, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		engine:  engine,
		mirror:  m,
		db:      db,
		webpush: webpushOptions,
	}
}

// writeError maps rule-engine errors onto HTTP statuses: validation 422,
// missing entities 404, everything else (store failures included) 500.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// dateParam parses the :date path parameter, answering 400 on malformed input.
func dateParam(c *gin.Context) (model.Date, bool) {
	d, err := model.ParseDate(c.Param("date"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid date. Use YYYY-MM-DD."})
		return "", false
	}
	return d, true
}
