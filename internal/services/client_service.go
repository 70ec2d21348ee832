// Package services – ClientService
//
// This file implements the create-or-reuse client operation. Email addresses
// are matched case-insensitively: an existing client is returned unchanged
// (an HTTP-level "already exists" signal, not an error) and a new row is
// inserted only when no client shares the normalized address.
//
// There is deliberately no database uniqueness constraint behind this check;
// concurrent first-time submissions for one address can race into duplicate
// rows. "Found existing" is treated as success in every case.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/28dev-al/recovery-office-backend/internal/domain"
	"github.com/28dev-al/recovery-office-backend/internal/repo"
)

// CreateClientInput is the payload accepted by ClientService.CreateOrReuse.
type CreateClientInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// ClientService implements the client use-cases over the record store.
type ClientService struct {
	DB *gorm.DB
}

// NewClientService constructs a ClientService.
func NewClientService(db *gorm.DB) *ClientService {
	return &ClientService{DB: db}
}

// CreateOrReuse looks up a client by normalized (lowercased) email and
// returns it when found, with created=false. Otherwise it inserts a new
// client stamped with the current time and returns created=true.
func (s *ClientService) CreateOrReuse(ctx context.Context, in CreateClientInput) (c *domain.Client, created bool, err error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" || email == "" {
		return nil, false, ErrMissingClientFields
	}

	existing, err := repo.FindClientByEmail(ctx, s.DB, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	c, err = repo.CreateClient(ctx, s.DB, &domain.Client{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     email,
		Phone:     strings.TrimSpace(in.Phone),
	})
	if err != nil {
		return nil, false, err
	}
	return c, true, nil
}

// List returns all clients newest-first.
func (s *ClientService) List(ctx context.Context) ([]domain.Client, error) {
	return repo.ListClients(ctx, s.DB)
}
