// Package services – AnalyticsService
//
// This file implements the dashboard aggregation read path. Four independent
// reads are issued concurrently (booking count, client count, bookings with
// service price populated, all services) and folded into a flattened
// summary: total revenue with a three-level value fallback, a success rate,
// a fixed-shape status breakdown, and an average booking value.
//
// The aggregator performs no writes and holds no cache; each request is a
// snapshot-at-read, not a transaction. Bookings arriving mid-aggregation may
// or may not be reflected.
package services

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/28dev-al/recovery-office-backend/internal/domain"
	"github.com/28dev-al/recovery-office-backend/internal/repo"
)

// AnalyticsService computes the operator dashboard summary.
type AnalyticsService struct {
	DB *gorm.DB
}

// NewAnalyticsService constructs an AnalyticsService.
func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{DB: db}
}

// Summary recomputes the dashboard metrics from the store.
//
// Derivations:
//   - totalRevenue: Σ booking value, where the value is a positive
//     estimatedValue, falling back to the populated service price, then 0;
//     rounded to the nearest whole unit.
//   - successRate: (completed + confirmed) / total * 100, one decimal place,
//     0 when there are no bookings.
//   - statusBreakdown: counts for the four known statuses only; anything
//     else is counted in the totals but invisible in the breakdown.
//   - averageBookingValue: round(totalRevenue / totalBookings), 0 when there
//     are no bookings.
func (s *AnalyticsService) Summary(ctx context.Context) (*domain.AnalyticsSummary, error) {
	var (
		totalBookings int64
		totalClients  int64
		bookings      []domain.Booking
		services      []domain.Service
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		totalBookings, err = repo.CountBookings(gctx, s.DB)
		return
	})
	g.Go(func() (err error) {
		totalClients, err = repo.CountClients(gctx, s.DB)
		return
	})
	g.Go(func() (err error) {
		bookings, err = repo.ListBookingsWithService(gctx, s.DB)
		return
	})
	g.Go(func() (err error) {
		services, err = repo.ListServices(gctx, s.DB, false)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// KnownStatuses defines the recognized set: pre-seeding the map means a
	// foreign status finds no slot and stays out of the breakdown.
	counts := make(map[string]int64, len(domain.KnownStatuses))
	for _, st := range domain.KnownStatuses {
		counts[st] = 0
	}

	var revenue float64
	var successful int64
	for i := range bookings {
		revenue += bookingValue(&bookings[i])

		st := bookings[i].Status
		if _, known := counts[st]; known {
			counts[st]++
		}
		if st == domain.StatusConfirmed || st == domain.StatusCompleted {
			successful++
		}
	}
	breakdown := domain.StatusBreakdown{
		Pending:   counts[domain.StatusPending],
		Confirmed: counts[domain.StatusConfirmed],
		Completed: counts[domain.StatusCompleted],
		Cancelled: counts[domain.StatusCancelled],
	}

	revenue = math.Round(revenue)

	var successRate, avg float64
	if totalBookings > 0 {
		successRate = roundTo1(float64(successful) / float64(totalBookings) * 100)
		avg = math.Round(revenue / float64(totalBookings))
	}

	return &domain.AnalyticsSummary{
		TotalBookings:       totalBookings,
		TotalRevenue:        revenue,
		ActiveClients:       totalClients,
		SuccessRate:         successRate,
		StatusBreakdown:     breakdown,
		AverageBookingValue: avg,
		TotalServices:       int64(len(services)),
	}, nil
}

// bookingValue applies the three-level value fallback for a single booking:
// estimatedValue when positive, then the populated service price, then 0.
// Negative estimates (only possible via out-of-band writes; Create rejects
// them) are ignored so totalRevenue stays non-negative.
func bookingValue(b *domain.Booking) float64 {
	if b.EstimatedValue > 0 {
		return b.EstimatedValue
	}
	if b.Service.ID != "" {
		return b.Service.Price
	}
	return 0
}

// roundTo1 rounds to one decimal place.
func roundTo1(f float64) float64 {
	return math.Round(f*10) / 10
}
