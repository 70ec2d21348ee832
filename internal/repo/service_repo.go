// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Service
// model.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/28dev-al/recovery-office-backend/internal/domain"
)

// CreateService inserts a new Service row with a generated UUID primary key
// and a UTC creation timestamp.
func CreateService(ctx context.Context, db *gorm.DB, s *domain.Service) (*domain.Service, error) {
	s.ID = uuid.NewString()
	s.CreatedAt = time.Now().UTC()
	if err := db.WithContext(ctx).Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

// ListServices returns services ordered by name. When onlyActive is true,
// inactive services are excluded (the public listing); the analytics read
// path passes false and sees everything.
func ListServices(ctx context.Context, db *gorm.DB, onlyActive bool) ([]domain.Service, error) {
	q := db.WithContext(ctx).Order("name asc")
	if onlyActive {
		q = q.Where("is_active = ?", true)
	}
	var out []domain.Service
	err := q.Find(&out).Error
	return out, err
}
