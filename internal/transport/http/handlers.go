package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"berberim/backend/internal/domain"
	"berberim/backend/internal/service/booking"
	"berberim/backend/internal/store"
)

type bookingService interface {
	AvailableSlots(ctx context.Context, providerID string, date time.Time, serviceID uuid.UUID) ([]booking.Slot, error)
	Book(ctx context.Context, in booking.BookInput) (domain.Appointment, error)
	UpdateStatus(ctx context.Context, appointmentID uuid.UUID, to domain.AppointmentStatus) (domain.Appointment, error)
	ListAppointments(ctx context.Context, providerID string, windowStart, windowEnd time.Time) ([]domain.Appointment, error)
	PutSchedule(ctx context.Context, in booking.PutScheduleInput) (domain.Schedule, error)
	CreateService(ctx context.Context, in booking.CreateServiceInput) (domain.CatalogService, error)
	ListServices(ctx context.Context, providerID string, activeOnly bool) ([]domain.CatalogService, error)
}

type handler struct {
	svc bookingService
	log *slog.Logger
}

func newHandler(svc bookingService, log *slog.Logger) *handler {
	return &handler{svc: svc, log: log}
}

const dateLayout = "2006-01-02"

type slotJSON struct {
	Start     string `json:"start"`
	Available bool   `json:"available"`
}

func (h *handler) availableSlots(c *gin.Context) {
	providerID := c.Param("provider_id")

	date, err := time.ParseInLocation(dateLayout, c.Query("date"), time.UTC)
	if err != nil {
		writeFieldError(c, "date", "must be YYYY-MM-DD")
		return
	}

	serviceID, err := uuid.Parse(c.Query("service_id"))
	if err != nil {
		writeFieldError(c, "service_id", "must be a UUID")
		return
	}

	slots, err := h.svc.AvailableSlots(c.Request.Context(), providerID, date, serviceID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	out := make([]slotJSON, 0, len(slots))
	for _, s := range slots {
		out = append(out, slotJSON{Start: s.Start.String(), Available: s.Available})
	}
	c.JSON(http.StatusOK, gin.H{
		"provider_id": providerID,
		"date":        date.Format(dateLayout),
		"slots":       out,
	})
}

type createAppointmentRequest struct {
	ServiceID     uuid.UUID  `json:"service_id"`
	CustomerID    *uuid.UUID `json:"customer_id"`
	CustomerName  string     `json:"customer_name"`
	CustomerPhone string     `json:"customer_phone"`
	StartsAt      time.Time  `json:"starts_at"`
	Source        string     `json:"source"`
}

type appointmentJSON struct {
	ID            uuid.UUID  `json:"id"`
	ProviderID    string     `json:"provider_id"`
	ServiceID     uuid.UUID  `json:"service_id"`
	CustomerID    *uuid.UUID `json:"customer_id,omitempty"`
	CustomerName  string     `json:"customer_name"`
	CustomerPhone string     `json:"customer_phone,omitempty"`
	StartsAt      time.Time  `json:"starts_at"`
	EndsAt        time.Time  `json:"ends_at"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func toAppointmentJSON(a domain.Appointment) appointmentJSON {
	return appointmentJSON{
		ID:            a.ID,
		ProviderID:    a.ProviderID,
		ServiceID:     a.ServiceID,
		CustomerID:    a.CustomerID,
		CustomerName:  a.CustomerName,
		CustomerPhone: a.CustomerPhone,
		StartsAt:      a.StartsAt,
		EndsAt:        a.EndsAt,
		Status:        string(a.Status),
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func (h *handler) createAppointment(c *gin.Context) {
	var req createAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeFieldError(c, "body", "invalid JSON body")
		return
	}

	appt, err := h.svc.Book(c.Request.Context(), booking.BookInput{
		ProviderID:     c.Param("provider_id"),
		ServiceID:      req.ServiceID,
		CustomerID:     req.CustomerID,
		CustomerName:   req.CustomerName,
		CustomerPhone:  req.CustomerPhone,
		StartsAt:       req.StartsAt,
		Source:         booking.Source(req.Source),
		IdempotencyKey: c.GetHeader("Idempotency-Key"),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toAppointmentJSON(appt))
}

func (h *handler) listAppointments(c *gin.Context) {
	providerID := c.Param("provider_id")

	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		writeFieldError(c, "from", "must be an RFC 3339 timestamp")
		return
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		writeFieldError(c, "to", "must be an RFC 3339 timestamp")
		return
	}

	appts, err := h.svc.ListAppointments(c.Request.Context(), providerID, from, to)
	if err != nil {
		h.writeError(c, err)
		return
	}

	out := make([]appointmentJSON, 0, len(appts))
	for _, a := range appts {
		out = append(out, toAppointmentJSON(a))
	}
	c.JSON(http.StatusOK, gin.H{"appointments": out})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *handler) updateAppointmentStatus(c *gin.Context) {
	appointmentID, err := uuid.Parse(c.Param("appointment_id"))
	if err != nil {
		writeFieldError(c, "appointment_id", "must be a UUID")
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeFieldError(c, "body", "invalid JSON body")
		return
	}

	appt, err := h.svc.UpdateStatus(c.Request.Context(), appointmentID, domain.AppointmentStatus(req.Status))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAppointmentJSON(appt))
}

type putScheduleRequest struct {
	WorkStart   string  `json:"work_start"`
	WorkEnd     string  `json:"work_end"`
	LunchStart  string  `json:"lunch_start"`
	LunchEnd    string  `json:"lunch_end"`
	DaysOff     []int16 `json:"days_off"`
	SlotMinutes int16   `json:"slot_minutes"`
}

type scheduleJSON struct {
	ProviderID  string  `json:"provider_id"`
	WorkStart   string  `json:"work_start"`
	WorkEnd     string  `json:"work_end"`
	LunchStart  string  `json:"lunch_start"`
	LunchEnd    string  `json:"lunch_end"`
	DaysOff     []int16 `json:"days_off"`
	SlotMinutes int16   `json:"slot_minutes"`
}

func toScheduleJSON(s domain.Schedule) scheduleJSON {
	daysOff := s.DaysOff
	if daysOff == nil {
		daysOff = []int16{}
	}
	return scheduleJSON{
		ProviderID:  s.ProviderID,
		WorkStart:   s.WorkStart.String(),
		WorkEnd:     s.WorkEnd.String(),
		LunchStart:  s.LunchStart.String(),
		LunchEnd:    s.LunchEnd.String(),
		DaysOff:     daysOff,
		SlotMinutes: s.SlotMinutes,
	}
}

func (h *handler) putSchedule(c *gin.Context) {
	var req putScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeFieldError(c, "body", "invalid JSON body")
		return
	}

	workStart, err := domain.ParseTimeOfDay(req.WorkStart)
	if err != nil {
		writeFieldError(c, "work_start", "must be HH:MM")
		return
	}
	workEnd, err := domain.ParseTimeOfDay(req.WorkEnd)
	if err != nil {
		writeFieldError(c, "work_end", "must be HH:MM")
		return
	}

	var lunchStart, lunchEnd domain.TimeOfDay
	if req.LunchStart != "" || req.LunchEnd != "" {
		lunchStart, err = domain.ParseTimeOfDay(req.LunchStart)
		if err != nil {
			writeFieldError(c, "lunch_start", "must be HH:MM")
			return
		}
		lunchEnd, err = domain.ParseTimeOfDay(req.LunchEnd)
		if err != nil {
			writeFieldError(c, "lunch_end", "must be HH:MM")
			return
		}
	}

	schedule, err := h.svc.PutSchedule(c.Request.Context(), booking.PutScheduleInput{
		ProviderID:  c.Param("provider_id"),
		WorkStart:   workStart,
		WorkEnd:     workEnd,
		LunchStart:  lunchStart,
		LunchEnd:    lunchEnd,
		DaysOff:     req.DaysOff,
		SlotMinutes: req.SlotMinutes,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toScheduleJSON(schedule))
}

type createServiceRequest struct {
	Name            string `json:"name"`
	DurationMinutes int    `json:"duration_minutes"`
	PriceCents      *int64 `json:"price_cents"`
	IsActive        *bool  `json:"is_active"`
}

type serviceJSON struct {
	ID              uuid.UUID `json:"id"`
	ProviderID      string    `json:"provider_id"`
	Name            string    `json:"name"`
	DurationMinutes int       `json:"duration_minutes"`
	PriceCents      *int64    `json:"price_cents,omitempty"`
	IsActive        bool      `json:"is_active"`
}

func toServiceJSON(s domain.CatalogService) serviceJSON {
	return serviceJSON{
		ID:              s.ID,
		ProviderID:      s.ProviderID,
		Name:            s.Name,
		DurationMinutes: s.DurationMinutes,
		PriceCents:      s.PriceCents,
		IsActive:        s.IsActive,
	}
}

func (h *handler) createService(c *gin.Context) {
	var req createServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeFieldError(c, "body", "invalid JSON body")
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	svc, err := h.svc.CreateService(c.Request.Context(), booking.CreateServiceInput{
		ProviderID:      c.Param("provider_id"),
		Name:            req.Name,
		DurationMinutes: req.DurationMinutes,
		PriceCents:      req.PriceCents,
		IsActive:        isActive,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toServiceJSON(svc))
}

func (h *handler) listServices(c *gin.Context) {
	providerID := c.Param("provider_id")
	activeOnly := c.Query("active") == "true"

	svcs, err := h.svc.ListServices(c.Request.Context(), providerID, activeOnly)
	if err != nil {
		h.writeError(c, err)
		return
	}

	out := make([]serviceJSON, 0, len(svcs))
	for _, s := range svcs {
		out = append(out, toServiceJSON(s))
	}
	c.JSON(http.StatusOK, gin.H{"services": out})
}

func writeFieldError(c *gin.Context, field, reason string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error": gin.H{"field": field, "reason": reason},
	})
}

// writeError translates service and store errors into HTTP responses. The
// booking service owns classification; this layer only assigns status codes.
func (h *handler) writeError(c *gin.Context, err error) {
	var vErr *booking.ValidationError
	if errors.As(err, &vErr) {
		writeFieldError(c, vErr.Field, vErr.Reason)
		return
	}

	var nfErr *booking.NotFoundError
	if errors.As(err, &nfErr) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": gin.H{"resource": nfErr.Resource, "reason": "not found"},
		})
		return
	}

	var cErr *booking.ConflictError
	if errors.As(err, &cErr) {
		c.JSON(http.StatusConflict, gin.H{
			"error": gin.H{
				"reason":    "slot already booked",
				"starts_at": cErr.Start,
				"ends_at":   cErr.End,
			},
		})
		return
	}

	var tErr *domain.InvalidTransitionError
	if errors.As(err, &tErr) {
		c.JSON(http.StatusConflict, gin.H{
			"error": gin.H{
				"reason": "invalid status transition",
				"from":   string(tErr.From),
				"to":     string(tErr.To),
			},
		})
		return
	}

	switch {
	case errors.Is(err, store.ErrIdempotencyConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error": gin.H{"reason": "idempotency key already used for a different booking"},
		})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": gin.H{"reason": "not found"},
		})
	case errors.Is(err, store.ErrUnavailable):
		h.log.Error("store unavailable", slog.Any("err", err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": gin.H{"reason": "service temporarily unavailable"},
		})
	default:
		h.log.Error("request failed",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Any("err", err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{"reason": "internal error"},
		})
	}
}
