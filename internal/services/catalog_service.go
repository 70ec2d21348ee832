// Package services – CatalogService
//
// This file implements the service catalogue operations: listing active
// services in their public display shape (price rendered with a currency
// symbol, duration humanized) and creating services. Creation is admin-only
// by convention; the handler does not enforce it.
package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/28dev-al/recovery-office-backend/internal/domain"
	"github.com/28dev-al/recovery-office-backend/internal/repo"
	"github.com/28dev-al/recovery-office-backend/internal/utils"
)

// ServiceView is the public display shape of a catalogue entry.
type ServiceView struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	Price           float64 `json:"price"`
	FormattedPrice  string  `json:"formattedPrice"`
	DurationMinutes int     `json:"durationMinutes"`
	Duration        string  `json:"duration"`
	Category        string  `json:"category"`
	Slug            string  `json:"slug"`
	IsActive        bool    `json:"isActive"`
}

// CatalogService implements the service-catalogue use-cases.
type CatalogService struct {
	DB *gorm.DB
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{DB: db}
}

// ListActive returns only active services, shaped for display.
func (s *CatalogService) ListActive(ctx context.Context) ([]ServiceView, error) {
	rows, err := repo.ListServices(ctx, s.DB, true)
	if err != nil {
		return nil, err
	}
	out := make([]ServiceView, 0, len(rows))
	for i := range rows {
		r := &rows[i]
		out = append(out, ServiceView{
			ID:              r.ID,
			Name:            r.Name,
			Description:     r.Description,
			Price:           r.Price,
			FormattedPrice:  utils.FormatPrice(r.Price),
			DurationMinutes: r.DurationMinutes,
			Duration:        utils.HumanizeDuration(r.DurationMinutes),
			Category:        r.Category,
			Slug:            r.Slug,
			IsActive:        r.IsActive,
		})
	}
	return out, nil
}

// Create validates and inserts a new catalogue entry.
func (s *CatalogService) Create(ctx context.Context, in domain.Service) (*domain.Service, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" || in.Price < 0 || in.DurationMinutes <= 0 {
		return nil, ErrInvalidService
	}
	if in.Slug == "" {
		in.Slug = utils.Slugify(in.Name)
	}
	return repo.CreateService(ctx, s.DB, &in)
}
