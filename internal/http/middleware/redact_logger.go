// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements RedactingLogger, the structured access logger. It
// scrubs personal data from request metadata before anything is written:
// profile lookups carry a name and birth date in the query string, and
// emails can appear anywhere.
//
// Usage:
//
//	r := gin.New()
//	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
//	    MaskHeaders: []string{"X-Api-Key"},
//	}))
//
// Request and response bodies are never logged.
package middleware

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// DefaultMaskedQueryParams are always masked in logged query strings.
var DefaultMaskedQueryParams = []string{"name", "birth_date", "email"}

// RedactOptions configures additional scrub behavior for RedactingLogger.
//
// MaskHeaders and MaskQueryParams name extra headers and query parameters
// whose values are replaced with "[REDACTED]". Matching is case-insensitive
// and merged with the built-in sets.
type RedactOptions struct {
	MaskHeaders     []string
	MaskQueryParams []string
}

// Patterns are applied in order. UUIDs go before phone numbers so the phone
// pattern never eats the digit runs of an ID.
var (
	uuidRE  = regexp.MustCompile(`(?i)\b[0-9a-f]{8}\-[0-9a-f]{4}\-[1-5][0-9a-f]{3}\-[89ab][0-9a-f]{3}\-[0-9a-f]{12}\b`)
	emailRE = regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`)
	phoneRE = regexp.MustCompile(`\b(?:\+?\d{1,3}[ .-]?)?(?:\(?\d{2,4}\)?[ .-]?)?\d{3,4}[ .-]?\d{4}\b`)
)

func redact(s string) string {
	if s == "" {
		return s
	}
	s = uuidRE.ReplaceAllString(s, "[REDACTED:id]")
	s = emailRE.ReplaceAllString(s, "[REDACTED:email]")
	return phoneRE.ReplaceAllString(s, "[REDACTED:phone]")
}

func lowerSet(base, extra []string) map[string]struct{} {
	m := make(map[string]struct{}, len(base)+len(extra))
	for _, list := range [][]string{base, extra} {
		for _, v := range list {
			if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
				m[v] = struct{}{}
			}
		}
	}
	return m
}

// redactQuery masks the values of masked parameters, keeping order and the
// other pairs as sent, then applies the pattern scrub.
func redactQuery(raw string, masked map[string]struct{}) string {
	if raw == "" {
		return ""
	}
	pairs := strings.Split(raw, "&")
	for i, p := range pairs {
		k, _, hasVal := strings.Cut(p, "=")
		name, err := url.QueryUnescape(k)
		if err != nil {
			name = k
		}
		if _, ok := masked[strings.ToLower(name)]; ok && hasVal {
			pairs[i] = k + "=[REDACTED]"
		}
	}
	return redact(truncate(strings.Join(pairs, "&"), maxQueryLogLength))
}

// RedactingLogger returns a Gin middleware that attaches a request-scoped
// logger (see LoggerFrom) and writes one access log per request with
// sensitive values scrubbed. The level is INFO, WARN for 4xx and ERROR for
// 5xx or when handlers recorded errors.
func RedactingLogger(opts RedactOptions) gin.HandlerFunc {
	maskHeaders := lowerSet([]string{"authorization", "cookie", "set-cookie"}, opts.MaskHeaders)
	maskQuery := lowerSet(DefaultMaskedQueryParams, opts.MaskQueryParams)

	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.Writer.Header().Get(requestIDHeader)
		if reqID == "" {
			reqID = c.GetHeader(requestIDHeader)
		}
		path := routePath(c)

		scoped := log.With().
			Str("request_id", reqID).
			Str("method", c.Request.Method).
			Str("path", path).
			Logger()
		c.Set(loggerKey, &scoped)

		safeQuery := redactQuery(c.Request.URL.RawQuery, maskQuery)
		safeHeaders := make(map[string]string, len(c.Request.Header))
		for k, vv := range c.Request.Header {
			if _, ok := maskHeaders[strings.ToLower(k)]; ok {
				safeHeaders[k] = "[REDACTED]"
				continue
			}
			safeHeaders[k] = redact(strings.Join(vv, ", "))
		}

		c.Next()

		status := c.Writer.Status()
		ev := scoped.Info()
		switch {
		case status >= 500 || len(c.Errors) > 0:
			ev = scoped.Error()
			if len(c.Errors) > 0 {
				ev = ev.Str("errors", redact(c.Errors.String()))
			}
		case status >= 400:
			ev = scoped.Warn()
		}

		ev.
			Str("query", safeQuery).
			Str("remote_ip", c.ClientIP()).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Interface("headers", safeHeaders).
			Msg("http_request")
	}
}
