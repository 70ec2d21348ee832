// Package domain defines the persistence models for clients, services, and
// bookings. These types are mapped with GORM and form the core data layer of
// the recovery-office booking application.
package domain

import "time"

// Booking status values. The analytics breakdown recognizes exactly this set;
// a booking stored with any other status still counts toward totals but is
// not represented in the breakdown.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// KnownStatuses lists the recognized statuses in breakdown order.
var KnownStatuses = []string{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled}

// Service represents a bookable consultation offering. Services are created
// by administrators and are read-only from the booking flow.
//
// Invariants: Price >= 0, DurationMinutes > 0.
type Service struct {
	ID              string    `json:"id"              gorm:"type:char(36);primaryKey"`
	Name            string    `json:"name"            gorm:"type:varchar(255);not null"`
	Description     string    `json:"description"     gorm:"type:text"`
	DurationMinutes int       `json:"durationMinutes" gorm:"not null;check:duration_minutes > 0"`
	Price           float64   `json:"price"           gorm:"not null;check:price >= 0"`
	Category        string    `json:"category"        gorm:"type:varchar(64);index"`
	// No DB default here: GORM skips zero-valued fields when a default is
	// declared, which would silently flip deactivated services back on.
	IsActive        bool      `json:"isActive"        gorm:"not null;index"`
	Slug            string    `json:"slug"            gorm:"type:varchar(255);index"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// TableName returns the database table name for Service.
func (Service) TableName() string { return "services" }

// Client represents a person who has booked (or attempted to book) a
// consultation. Email is stored lowercased and matched case-insensitively.
//
// Uniqueness of Email is enforced by lookup-before-insert in the service
// layer, not by a database constraint. Concurrent first-time submissions for
// the same address can therefore race into two rows; "found existing" is
// always treated as success, never as an error.
type Client struct {
	ID        string    `json:"id"        gorm:"type:char(36);primaryKey"`
	FirstName string    `json:"firstName" gorm:"type:varchar(128);not null"`
	LastName  string    `json:"lastName"  gorm:"type:varchar(128);not null"`
	Email     string    `json:"email"     gorm:"type:varchar(255);not null;index"`
	Phone     string    `json:"phone"     gorm:"type:varchar(32)"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName returns the database table name for Client.
func (Client) TableName() string { return "clients" }

// Booking is a consultation request linking a client to a service.
//
// Reference is stamped once at creation ("RO-" + epoch millis) and never
// changes. Status transitions are append-only; no reverse transition is
// exposed by the API.
//
// The Client and Service associations are populated on read via Preload. No
// foreign-key constraint is created for them: a booking must remain listable
// even after its referenced client or service has been deleted (display
// fallbacks are substituted in the service layer).
type Booking struct {
	ID             string    `json:"id"             gorm:"type:char(36);primaryKey"`
	ClientID       string    `json:"clientId"       gorm:"type:char(36);not null;index"`
	ServiceID      string    `json:"serviceId"      gorm:"type:char(36);not null;index"`
	Date           time.Time `json:"date"`
	TimeSlot       string    `json:"timeSlot"       gorm:"type:varchar(32)"`
	Status         string    `json:"status"         gorm:"type:varchar(16);not null;default:'confirmed';index"`
	EstimatedValue float64   `json:"estimatedValue" gorm:"not null;default:0"`
	Reference      string    `json:"reference"      gorm:"type:varchar(32);index"`
	UrgencyLevel   string    `json:"urgencyLevel"   gorm:"type:varchar(16)"`
	CreatedAt      time.Time `json:"createdAt"      gorm:"index"`
	UpdatedAt      time.Time `json:"updatedAt"`

	Client  Client  `json:"-" gorm:"foreignKey:ClientID;references:ID"`
	Service Service `json:"-" gorm:"foreignKey:ServiceID;references:ID"`
}

// TableName returns the database table name for Booking.
func (Booking) TableName() string { return "bookings" }

// StatusBreakdown is the fixed-shape per-status count in an analytics
// summary. All four fields are always present, including zeroes.
type StatusBreakdown struct {
	Pending   int64 `json:"pending"`
	Confirmed int64 `json:"confirmed"`
	Completed int64 `json:"completed"`
	Cancelled int64 `json:"cancelled"`
}

// AnalyticsSummary is the derived dashboard summary. It is recomputed from
// the store on every request and never persisted or cached.
type AnalyticsSummary struct {
	TotalBookings       int64           `json:"totalBookings"`
	TotalRevenue        float64         `json:"totalRevenue"`
	ActiveClients       int64           `json:"activeClients"`
	SuccessRate         float64         `json:"successRate"`
	StatusBreakdown     StatusBreakdown `json:"statusBreakdown"`
	AverageBookingValue float64         `json:"averageBookingValue"`
	TotalServices       int64           `json:"totalServices"`
}
