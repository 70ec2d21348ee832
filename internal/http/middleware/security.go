// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file adds conservative security headers to every response. HSTS is
// opt-in and only emitted on HTTPS requests; do not enable it when traffic
// between proxy and app is plain HTTP.
package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// SecurityOptions configures SecurityHeaders.
type SecurityOptions struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// SecurityHeaders returns a Gin middleware that sets baseline hardening
// headers (nosniff, frame denial, no-referrer) and, when enabled and the
// request is HTTPS, Strict-Transport-Security.
func SecurityHeaders(opt SecurityOptions) gin.HandlerFunc {
	maxAge := int(opt.HSTSMaxAge.Seconds())
	if maxAge <= 0 {
		maxAge = int((180 * 24 * time.Hour).Seconds())
	}
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")

		if opt.EnableHSTS && c.Request.TLS != nil {
			h.Set("Strict-Transport-Security",
				"max-age="+strconv.Itoa(maxAge)+"; includeSubDomains")
		}
		c.Next()
	}
}
