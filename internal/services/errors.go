// Package services defines the business logic for bookings, clients, the
// service catalogue, and dashboard analytics. This file centralizes common
// service-level error values so that they can be consistently returned by
// service methods and checked by callers.
//
// Translation into user-facing messages or HTTP status codes is performed at
// the handler layer.
package services

import "errors"

var (
	// ErrMissingBookingFields is returned when a booking payload lacks
	// clientId or serviceId. User-correctable; mapped to HTTP 400.
	ErrMissingBookingFields = errors.New("Missing required fields: clientId and serviceId")

	// ErrMissingClientFields is returned when a client payload lacks the
	// required identity fields.
	ErrMissingClientFields = errors.New("Missing required fields: firstName, lastName and email")

	// ErrNegativeEstimatedValue is returned when a booking payload carries a
	// negative estimatedValue, which would poison the revenue totals.
	ErrNegativeEstimatedValue = errors.New("estimatedValue cannot be negative")

	// ErrInvalidService is returned when a service payload violates the
	// catalogue invariants (price >= 0, duration > 0, name present).
	ErrInvalidService = errors.New("invalid service definition")
)
