// Package handlers provides HTTP handler implementations for the public
// API.
//
// Every response — success or failure — is wrapped in the fixed envelope
// {status, results?, data?, message?}. Handlers never let an error escape
// un-enveloped: each body is mapped through the helpers below, and
// unexpected failures become a 500 whose message is attached only outside
// production.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/28dev-al/recovery-office-backend/internal/http/middleware"
)

// Envelope is the fixed response wrapper used by every endpoint.
type Envelope struct {
	Status  string `json:"status"`
	Results *int   `json:"results,omitempty"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// ok writes a success envelope carrying data.
func ok(c *gin.Context, status int, data any) {
	c.JSON(status, Envelope{Status: "success", Data: data})
}

// okList writes a success envelope carrying a collection and its length.
func okList(c *gin.Context, data any, results int) {
	c.JSON(http.StatusOK, Envelope{Status: "success", Results: &results, Data: data})
}

// fail aborts the request with an error envelope. Server-side errors
// (>= 500) are logged with the request-scoped logger.
func fail(c *gin.Context, status int, msg string) {
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("message", msg).
			Msg("api error")
	}
	c.AbortWithStatusJSON(status, Envelope{Status: "error", Message: msg})
}

// Fail is the exported variant of fail, for router-level fallbacks
// (NoRoute, NoMethod).
func Fail(c *gin.Context, status int, msg string) { fail(c, status, msg) }
