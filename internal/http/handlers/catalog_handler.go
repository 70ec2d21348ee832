// Service-catalogue HTTP handlers.
//
// This file exposes REST endpoints for the consultation catalogue:
//   - GET  /api/services  (active only, display-formatted)
//   - POST /api/services  (admin-only by convention, not enforced here)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/28dev-al/recovery-office-backend/internal/domain"
	"github.com/28dev-al/recovery-office-backend/internal/services"
)

// CreateServiceRequest is the JSON payload for creating a catalogue entry.
type CreateServiceRequest struct {
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	DurationMinutes int     `json:"durationMinutes"`
	Price           float64 `json:"price"`
	Category        string  `json:"category"`
	Slug            string  `json:"slug"`
}

// ListServices handles GET /api/services: only active services, with the
// price rendered with a currency symbol and the duration humanized.
func (h *Handlers) ListServices(c *gin.Context) {
	views, err := h.catalog.ListActive(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, h.internalMessage(err))
		return
	}
	okList(c, views, len(views))
}

// CreateService handles POST /api/services.
func (h *Handlers) CreateService(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid JSON body")
		return
	}

	svc, err := h.catalog.Create(c.Request.Context(), domain.Service{
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		Category:        req.Category,
		Slug:            req.Slug,
		IsActive:        true,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidService) {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, h.internalMessage(err))
		return
	}
	ok(c, http.StatusCreated, svc)
}
