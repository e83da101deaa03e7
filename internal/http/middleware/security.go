// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file provides SecurityHeaders, a hardening middleware for the JSON API.
// Profile responses carry a name, birth date and email, so they can be marked
// no-store independently of plan reads, which stay cacheable through ETags.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// SecurityOptions configures HTTP security headers emitted by SecurityHeaders.
//
// EnableHSTS emits Strict-Transport-Security for HTTPS requests only. Enable
// it only when traffic is HTTPS end-to-end. HSTSMaxAge defaults to 180 days.
//
// NoStore adds Cache-Control: no-store (plus legacy Pragma/Expires) to every
// response. NoStorePrefixes limits the same headers to request paths under
// any of the given prefixes.
//
// EnablePolicy sends Permissions-Policy and X-Permitted-Cross-Domain-Policies.
type SecurityOptions struct {
	EnableHSTS      bool
	HSTSMaxAge      time.Duration
	NoStore         bool
	NoStorePrefixes []string
	EnablePolicy    bool
}

// SecurityHeaders returns a Gin middleware that always sets
// X-Content-Type-Options, X-Frame-Options and Referrer-Policy, adds the
// optional headers configured in opt, and exposes X-Request-ID to browser
// clients when present.
func SecurityHeaders(opt SecurityOptions) gin.HandlerFunc {
	maxAge := int(opt.HSTSMaxAge.Seconds())
	if maxAge <= 0 {
		maxAge = int((180 * 24 * time.Hour).Seconds())
	}
	hsts := "max-age=" + strconv.Itoa(maxAge) + "; includeSubDomains; preload"

	return func(c *gin.Context) {
		h := c.Writer.Header()

		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")

		if opt.EnablePolicy {
			h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=()")
			h.Set("X-Permitted-Cross-Domain-Policies", "none")
		}

		if opt.NoStore || hasAnyPrefix(c.Request.URL.Path, opt.NoStorePrefixes) {
			h.Set("Cache-Control", "no-store")
			h.Set("Pragma", "no-cache")
			h.Set("Expires", "0")
		}

		if opt.EnableHSTS && isHTTPS(c.Request) {
			h.Set("Strict-Transport-Security", hsts)
		}

		if rid := h.Get(requestIDHeader); rid != "" {
			const hdr = "Access-Control-Expose-Headers"
			cur := h.Get(hdr)
			if cur == "" {
				h.Set(hdr, requestIDHeader)
			} else if !strings.Contains(cur, requestIDHeader) {
				h.Set(hdr, cur+", "+requestIDHeader)
			}
		}

		c.Next()
	}
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// isHTTPS reports whether the request used HTTPS directly or via a reverse
// proxy that set X-Forwarded-Proto: https.
func isHTTPS(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
