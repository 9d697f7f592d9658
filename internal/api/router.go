package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"machine-booking-backend/config"
	"machine-booking-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, cfg *config.ServerConfig) *gin.Engine {
	r := gin.Default()

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter, mw.FlushOnWrite(cacheStore))
	{
		api.GET("/machines", h.ListMachines)
		api.POST("/machines", h.CreateMachine)
		api.PUT("/machines/:id", h.UpdateMachine)
		api.DELETE("/machines/:id", h.DeleteMachine)

		api.GET("/clinics", h.ListClinics)
		api.POST("/clinics", h.CreateClinic)
		api.PUT("/clinics/:id", h.UpdateClinic)
		api.DELETE("/clinics/:id", h.DeleteClinic)

		api.GET("/bookings", h.ListBookings)
		api.PUT("/bookings", h.SetBooking)
		api.DELETE("/bookings/:machine_id/:date", h.RemoveBooking)

		// Derived views are the hot read path; they get the response cache.
		api.GET("/schedule/:date", caching, h.GetDaySchedule)
		api.GET("/schedule/:date/week", caching, h.GetWeekSchedule)

		// Live change feed; never cached.
		api.GET("/events", h.StreamEvents)

		api.GET("/subscriptions", h.GetSubscription)
		api.PUT("/subscriptions", h.PutSubscription)
		api.DELETE("/subscriptions", h.DeleteSubscription)
		api.GET("/vapid_public_key", h.GetVAPIDPublicKey)
	}

	return r
}
