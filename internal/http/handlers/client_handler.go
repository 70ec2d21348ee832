// Client HTTP handlers.
//
// This file exposes REST endpoints for client resources:
//   - POST /api/clients  (create-or-reuse by normalized email)
//   - GET  /api/clients  (list, newest-first)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/28dev-al/recovery-office-backend/internal/services"
)

// CreateClientRequest is the JSON payload for creating a client.
type CreateClientRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// CreateClient handles POST /api/clients.
//
// Emails are matched case-insensitively: when a client already exists for
// the normalized address, the existing record is returned with a 200 — an
// "already exists" signal, never an error. A new client yields a 201.
func (h *Handlers) CreateClient(c *gin.Context) {
	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid JSON body")
		return
	}

	client, created, err := h.clients.CreateOrReuse(c.Request.Context(), services.CreateClientInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	})
	if err != nil {
		if errors.Is(err, services.ErrMissingClientFields) {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, h.internalMessage(err))
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	ok(c, status, client)
}

// ListClients handles GET /api/clients, newest-first.
func (h *Handlers) ListClients(c *gin.Context) {
	clients, err := h.clients.List(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, h.internalMessage(err))
		return
	}
	okList(c, clients, len(clients))
}
