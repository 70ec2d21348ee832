// Package services – BookingService
//
// This file implements the booking command operations: creating a booking
// (with required-field validation, reference stamping, and status default)
// and listing bookings as display records with populated client/service
// columns and non-negotiable presentation fallbacks. The list path must
// never fail merely because a referenced Client or Service was deleted.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/28dev-al/recovery-office-backend/internal/domain"
	"github.com/28dev-al/recovery-office-backend/internal/repo"
	"github.com/28dev-al/recovery-office-backend/internal/sysutil"
)

// Display fallbacks substituted when a populated reference is missing.
const (
	UnknownClient  = "Unknown Client"
	UnknownService = "Unknown Service"
)

// CreateBookingInput is the payload accepted by BookingService.Create.
// Status is optional and defaults to "confirmed".
type CreateBookingInput struct {
	ClientID       string    `json:"clientId"`
	ServiceID      string    `json:"serviceId"`
	Date           time.Time `json:"date"`
	TimeSlot       string    `json:"timeSlot"`
	Status         string    `json:"status"`
	EstimatedValue float64   `json:"estimatedValue"`
	UrgencyLevel   string    `json:"urgencyLevel"`
}

// BookingView is the display record returned by the list endpoints. The
// client and service columns are flattened with fallbacks applied, so a view
// is always fully renderable.
type BookingView struct {
	ID             string    `json:"id"`
	Reference      string    `json:"reference"`
	ClientName     string    `json:"clientName"`
	ServiceName    string    `json:"serviceName"`
	Date           time.Time `json:"date"`
	TimeSlot       string    `json:"timeSlot"`
	Status         string    `json:"status"`
	EstimatedValue float64   `json:"estimatedValue"`
	CreatedAt      time.Time `json:"createdAt"`
}

// DashboardBookingView extends BookingView with the extra columns shown on
// the operator dashboard.
type DashboardBookingView struct {
	BookingView
	ClientEmail  string  `json:"clientEmail"`
	ServicePrice float64 `json:"servicePrice"`
	UrgencyLevel string  `json:"urgencyLevel"`
}

// BookingService implements the booking use-cases over the record store.
type BookingService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// NewBookingService constructs a BookingService.
func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{DB: db}
}

// Create validates and persists a new booking.
//
// Semantics:
//   - clientId and serviceId are required; otherwise ErrMissingBookingFields.
//   - estimatedValue must be >= 0; otherwise ErrNegativeEstimatedValue.
//   - reference is stamped as "RO-" + current epoch millis and never changes.
//   - status defaults to "confirmed" when absent.
func (s *BookingService) Create(ctx context.Context, in CreateBookingInput) (*domain.Booking, error) {
	if strings.TrimSpace(in.ClientID) == "" || strings.TrimSpace(in.ServiceID) == "" {
		return nil, ErrMissingBookingFields
	}
	if in.EstimatedValue < 0 {
		return nil, ErrNegativeEstimatedValue
	}

	status := strings.TrimSpace(in.Status)
	if status == "" {
		status = domain.StatusConfirmed
	}

	b := &domain.Booking{
		ClientID:       strings.TrimSpace(in.ClientID),
		ServiceID:      strings.TrimSpace(in.ServiceID),
		Date:           in.Date,
		TimeSlot:       in.TimeSlot,
		Status:         status,
		EstimatedValue: in.EstimatedValue,
		Reference:      NewReference(time.Now()),
		UrgencyLevel:   in.UrgencyLevel,
	}
	return repo.CreateBooking(ctx, s.DB, b)
}

// List returns all bookings newest-first as display records.
func (s *BookingService) List(ctx context.Context) ([]BookingView, error) {
	rows, err := repo.ListBookings(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	out := make([]BookingView, 0, len(rows))
	for i := range rows {
		out = append(out, shapeBooking(&rows[i]))
	}
	return out, nil
}

// ListDashboard returns all bookings newest-first in the dashboard shape
// (booking view plus client email, service price, and urgency level).
func (s *BookingService) ListDashboard(ctx context.Context) ([]DashboardBookingView, error) {
	rows, err := repo.ListBookings(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	out := make([]DashboardBookingView, 0, len(rows))
	for i := range rows {
		b := &rows[i]
		out = append(out, DashboardBookingView{
			BookingView:  shapeBooking(b),
			ClientEmail:  b.Client.Email,
			ServicePrice: b.Service.Price,
			UrgencyLevel: b.UrgencyLevel,
		})
	}
	return out, nil
}

// shapeBooking flattens a populated booking into a display record, applying
// the documented fallbacks for dangling references and missing values.
func shapeBooking(b *domain.Booking) BookingView {
	v := BookingView{
		ID:             b.ID,
		Date:           b.Date,
		TimeSlot:       b.TimeSlot,
		Status:         b.Status,
		EstimatedValue: b.EstimatedValue,
		CreatedAt:      b.CreatedAt,
	}

	var clientName, serviceName string
	if b.Client.ID != "" {
		clientName = strings.TrimSpace(b.Client.FirstName + " " + b.Client.LastName)
	}
	if b.Service.ID != "" {
		serviceName = b.Service.Name
	}
	v.ClientName = sysutil.FirstNonEmpty(clientName, UnknownClient)
	v.ServiceName = sysutil.FirstNonEmpty(serviceName, UnknownService)
	v.Reference = sysutil.FirstNonEmpty(b.Reference, PseudoReference(b.ID))
	return v
}

// NewReference stamps a human-readable booking reference from the creation
// instant: "RO-" followed by epoch milliseconds.
func NewReference(now time.Time) string {
	return fmt.Sprintf("RO-%d", now.UnixMilli())
}

// PseudoReference derives a deterministic display reference from a record
// identifier, used only when the authoritative reference stamped at creation
// is absent. Calling it twice with the same id yields the same label.
func PseudoReference(id string) string {
	trailing := id
	if len(trailing) > 8 {
		trailing = trailing[len(trailing)-8:]
	}
	return "RO-" + strings.ToUpper(trailing)
}
