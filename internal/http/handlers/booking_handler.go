// Booking HTTP handlers.
//
// This file exposes REST endpoints for booking resources:
//   - POST /api/bookings  (create)
//   - GET  /api/bookings  (list, newest-first, populated)
//
// Handlers are transport-thin: they validate input, call application
// services, and translate results into enveloped HTTP responses.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/28dev-al/recovery-office-backend/internal/domain"
	"github.com/28dev-al/recovery-office-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// BookingService defines the booking operations consumed by HTTP handlers.
type BookingService interface {
	// Create validates and persists a new booking.
	Create(ctx context.Context, in services.CreateBookingInput) (*domain.Booking, error)
	// List returns all bookings newest-first as display records.
	List(ctx context.Context) ([]services.BookingView, error)
	// ListDashboard returns bookings in the dashboard shape.
	ListDashboard(ctx context.Context) ([]services.DashboardBookingView, error)
}

// ClientService defines the client operations consumed by HTTP handlers.
type ClientService interface {
	// CreateOrReuse returns the existing client for a normalized email, or
	// inserts a new one; created distinguishes the two for the status code.
	CreateOrReuse(ctx context.Context, in services.CreateClientInput) (c *domain.Client, created bool, err error)
	// List returns all clients newest-first.
	List(ctx context.Context) ([]domain.Client, error)
}

// CatalogService defines the service-catalogue operations consumed by HTTP
// handlers.
type CatalogService interface {
	// ListActive returns active services shaped for display.
	ListActive(ctx context.Context) ([]services.ServiceView, error)
	// Create inserts a new catalogue entry.
	Create(ctx context.Context, in domain.Service) (*domain.Service, error)
}

// AnalyticsService defines the dashboard aggregation consumed by HTTP
// handlers.
type AnalyticsService interface {
	// Summary recomputes the dashboard metrics from the store.
	Summary(ctx context.Context) (*domain.AnalyticsSummary, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for bookings, clients, services, and
// the dashboard. ExposeErrors controls whether 500 responses carry the
// underlying error message; it is false in production.
type Handlers struct {
	bookings  BookingService
	clients   ClientService
	catalog   CatalogService
	analytics AnalyticsService

	exposeErrors bool
}

// New constructs a Handlers instance bound to the given services.
func New(b BookingService, c ClientService, cat CatalogService, a AnalyticsService, exposeErrors bool) *Handlers {
	return &Handlers{bookings: b, clients: c, catalog: cat, analytics: a, exposeErrors: exposeErrors}
}

// internalMessage hides raw error detail in production.
func (h *Handlers) internalMessage(err error) string {
	if h.exposeErrors {
		return err.Error()
	}
	return "Internal server error"
}

//
// DTOs
//

// CreateBookingRequest is the JSON payload for creating a booking. Date
// accepts RFC 3339 or a bare YYYY-MM-DD day.
type CreateBookingRequest struct {
	ClientID       string  `json:"clientId"`
	ServiceID      string  `json:"serviceId"`
	Date           string  `json:"date"`
	TimeSlot       string  `json:"timeSlot"`
	Status         string  `json:"status"`
	EstimatedValue float64 `json:"estimatedValue"`
	UrgencyLevel   string  `json:"urgencyLevel"`
}

// parseDate accepts the two wire formats used by the booking clients.
func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

//
// Handlers
//

// CreateBooking handles POST /api/bookings.
//
// Responses:
//   - 201 with the stored booking
//   - 400 when clientId or serviceId is missing, estimatedValue is negative,
//     or the body is invalid
//   - 500 on store failure
func (h *Handlers) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid JSON body")
		return
	}
	date, valid := parseDate(req.Date)
	if !valid {
		fail(c, http.StatusBadRequest, "date must be RFC 3339 or YYYY-MM-DD")
		return
	}

	b, err := h.bookings.Create(c.Request.Context(), services.CreateBookingInput{
		ClientID:       req.ClientID,
		ServiceID:      req.ServiceID,
		Date:           date,
		TimeSlot:       req.TimeSlot,
		Status:         req.Status,
		EstimatedValue: req.EstimatedValue,
		UrgencyLevel:   req.UrgencyLevel,
	})
	if err != nil {
		if errors.Is(err, services.ErrMissingBookingFields) || errors.Is(err, services.ErrNegativeEstimatedValue) {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, h.internalMessage(err))
		return
	}
	ok(c, http.StatusCreated, b)
}

// ListBookings handles GET /api/bookings: newest-first display records with
// populated client and service columns and the documented fallbacks.
func (h *Handlers) ListBookings(c *gin.Context) {
	views, err := h.bookings.List(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, h.internalMessage(err))
		return
	}
	okList(c, views, len(views))
}
