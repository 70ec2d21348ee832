// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Booking
// model, including reference population (Preload of the Client and Service
// associations).
//
// Population never fails a read: a booking whose referenced client or
// service row has been deleted comes back with a zero-valued association,
// which the service layer detects via an empty ID and replaces with the
// documented display fallbacks.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/28dev-al/recovery-office-backend/internal/domain"
)

// CreateBooking inserts a new Booking row. The id is a generated UUID and
// CreatedAt is set to UTC now. Reference and Status are expected to be
// stamped by the caller (see services.BookingService.Create).
func CreateBooking(ctx context.Context, db *gorm.DB, b *domain.Booking) (*domain.Booking, error) {
	b.ID = uuid.NewString()
	b.CreatedAt = time.Now().UTC()
	if err := db.WithContext(ctx).Create(b).Error; err != nil {
		return nil, err
	}
	return b, nil
}

// ListBookings returns all bookings ordered by creation time descending
// (newest first), with the Client and Service associations populated.
func ListBookings(ctx context.Context, db *gorm.DB) ([]domain.Booking, error) {
	var out []domain.Booking
	err := db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// ListBookingsWithService returns all bookings with only the Service
// association populated. This is the analytics read path, which needs the
// service price for the revenue fallback but not the client.
func ListBookingsWithService(ctx context.Context, db *gorm.DB) ([]domain.Booking, error) {
	var out []domain.Booking
	err := db.WithContext(ctx).
		Preload("Service").
		Find(&out).Error
	return out, err
}

// CountBookings returns the total number of booking rows.
func CountBookings(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Booking{}).
		Count(&total).Error
	return total, err
}
