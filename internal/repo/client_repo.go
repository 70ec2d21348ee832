// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Client
// model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a client is not found, functions return gorm.ErrRecordNotFound
//     (also exported in this package as ErrNotFound).
//   - On DB errors the raw gorm error is propagated; translation to
//     ErrStoreUnavailable happens in the service layer.
package repo

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/28dev-al/recovery-office-backend/internal/domain"
)

// CreateClient inserts a new Client row. The id is a generated UUID, the
// email is stored lowercased, and CreatedAt is set to UTC now.
func CreateClient(ctx context.Context, db *gorm.DB, c *domain.Client) (*domain.Client, error) {
	c.ID = uuid.NewString()
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.CreatedAt = time.Now().UTC()
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// FindClientByEmail fetches a client whose email equals the given address
// after lowercasing. Returns ErrNotFound when no such client exists.
//
// Emails are normalized at insert time, but the lookup lowercases the column
// as well so rows written before normalization still match.
func FindClientByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.Client, error) {
	var c domain.Client
	err := db.WithContext(ctx).
		Where("lower(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListClients returns all clients ordered by creation time descending.
func ListClients(ctx context.Context, db *gorm.DB) ([]domain.Client, error) {
	var out []domain.Client
	err := db.WithContext(ctx).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// CountClients returns the total number of client rows.
func CountClients(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Client{}).
		Count(&total).Error
	return total, err
}
