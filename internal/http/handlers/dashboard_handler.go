// Dashboard HTTP handlers.
//
// This file exposes the operator dashboard read endpoints:
//   - GET /api/dashboard/analytics  (derived summary, recomputed per request)
//   - GET /api/dashboard/bookings   (booking list with dashboard columns)
//
// Both are pure reads with snapshot-at-read semantics; neither caches.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// DashboardAnalytics handles GET /api/dashboard/analytics.
func (h *Handlers) DashboardAnalytics(c *gin.Context) {
	summary, err := h.analytics.Summary(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, h.internalMessage(err))
		return
	}
	ok(c, http.StatusOK, summary)
}

// DashboardBookings handles GET /api/dashboard/bookings: the booking list
// shape plus clientEmail, servicePrice, and urgencyLevel.
func (h *Handlers) DashboardBookings(c *gin.Context) {
	views, err := h.bookings.ListDashboard(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, h.internalMessage(err))
		return
	}
	okList(c, views, len(views))
}
