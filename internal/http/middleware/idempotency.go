package middleware

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// HeaderIdempotencyKey carries the client's retry key for unsafe requests.
// Feedback submissions are the only writes that store it.
const HeaderIdempotencyKey = "Idempotency-Key"

const (
	ctxKeyIdemKey    = "idem.key"
	ctxKeyIdemReplay = "idem.replay"
	ctxKeyRateBypass = "rate.bypass"
)

var defaultKeyPattern = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)

// GetIdempotencyKey returns the key accepted by IdempotencyValidator.
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxKeyIdemKey)
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}

// IsReplay reports whether a completed request with the same key already
// exists for the targeted resource. Handlers still decide what to return.
func IsReplay(c *gin.Context) bool {
	v, ok := c.Get(ctxKeyIdemReplay)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// IdempotencyOptions configures IdempotencyValidator.
type IdempotencyOptions struct {
	// MaxLen caps the key length. Values <= 0 mean 200.
	MaxLen int
	// Pattern restricts the key alphabet. Nil means ^[A-Za-z0-9._~\-:]+$.
	Pattern *regexp.Regexp
	// ScopeParam names the path parameter holding the targeted resource.
	// Empty means "id", which is the plan ID on /plans/:id/feedback.
	ScopeParam string
}

// IdempotencyLookup reports whether an unexpired record exists for
// (scope, key). Expiry is the lookup's job.
type IdempotencyLookup func(ctx context.Context, scope, key string, now time.Time) (exists bool, err error)

// IdempotencyValidator validates Idempotency-Key, stashes it, and marks known
// replays so the rate limiter lets them through. Requests without the header
// pass untouched; a malformed key is rejected with 400. Lookup failures are
// logged and treated as a miss.
func IdempotencyValidator(opts IdempotencyOptions, lookup IdempotencyLookup) gin.HandlerFunc {
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = 200
	}
	pat := opts.Pattern
	if pat == nil {
		pat = defaultKeyPattern
	}
	param := opts.ScopeParam
	if param == "" {
		param = "id"
	}

	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader(HeaderIdempotencyKey))
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxLen || !pat.MatchString(key) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"request_id": c.Writer.Header().Get(requestIDHeader),
				"code":       "bad_idempotency_key",
				"message":    "invalid Idempotency-Key",
			})
			return
		}
		c.Set(ctxKeyIdemKey, key)

		scope := c.Param(param)
		if lookup == nil || scope == "" || !isUnsafeMethod(c.Request.Method) {
			c.Next()
			return
		}
		exists, err := lookup(c.Request.Context(), scope, key, time.Now().UTC())
		switch {
		case err != nil:
			LoggerFrom(c).Warn().Err(err).Str("scope", scope).Msg("idempotency lookup failed")
		case exists:
			c.Set(ctxKeyIdemReplay, true)
			c.Set(ctxKeyRateBypass, true)
		}
		c.Next()
	}
}
