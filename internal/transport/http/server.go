package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is what the health endpoint needs from the database handle.
type Pinger interface {
	PingContext(ctx context.Context) error
}

func NewRouter(svc bookingService, db Pinger, log *slog.Logger, requestTimeout time.Duration) *gin.Engine {
	if log == nil {
		log = slog.Default()
	}

	h := newHandler(svc, log)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestTimeoutMiddleware(requestTimeout))

	r.GET("/healthz", func(c *gin.Context) {
		if db != nil {
			if err := db.PingContext(c.Request.Context()); err != nil {
				log.Warn("health check failed", slog.Any("err", err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/v1")
	{
		v1.GET("/providers/:provider_id/slots", h.availableSlots)
		v1.GET("/providers/:provider_id/appointments", h.listAppointments)
		v1.POST("/providers/:provider_id/appointments", h.createAppointment)
		v1.PATCH("/appointments/:appointment_id/status", h.updateAppointmentStatus)
		v1.PUT("/providers/:provider_id/schedule", h.putSchedule)
		v1.GET("/providers/:provider_id/services", h.listServices)
		v1.POST("/providers/:provider_id/services", h.createService)
	}

	return r
}

func requestTimeoutMiddleware(timeout time.Duration) gin.HandlerFunc {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return func(c *gin.Context) {
		if _, ok := c.Request.Context().Deadline(); ok {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
