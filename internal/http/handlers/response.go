// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the response helpers shared by every endpoint: the error
// envelope, the single place where service errors become HTTP statuses, and
// small success writers.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-training-planner/internal/http/middleware"
	"github.com/tbourn/go-training-planner/internal/services"
)

// ErrorResponse is the standard error envelope returned by all endpoints.
type ErrorResponse struct {
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code" example:"not_found"`
	// Human-readable message (safe to show to users)
	Message string `json:"message" example:"profile not found"`
	// Rejected fields, only for validation_failed
	Fields []services.FieldError `json:"fields,omitempty"`
}

// fail aborts the request with a structured error. Server errors (>=500) are
// logged with the request-scoped logger.
func fail(c *gin.Context, status int, code, msg string) {
	failWith(c, status, ErrorResponse{Code: code, Message: msg})
}

func failWith(c *gin.Context, status int, resp ErrorResponse) {
	resp.RequestID = c.Writer.Header().Get("X-Request-ID")
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", resp.Code).
			Str("message", resp.Message).
			Msg("api error")
	}
	c.AbortWithStatusJSON(status, resp)
}

// Fail is the exported variant of fail() for the router fallbacks.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// failErr translates a service error into its HTTP status:
//
//	*ValidationError   400
//	not found          404
//	ErrIntegrity       409
//	ErrTransient       503 + Retry-After
//	anything else      500 with fallbackCode
func failErr(c *gin.Context, err error, fallbackCode string) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		failWith(c, http.StatusBadRequest, ErrorResponse{
			Code:    ErrCodeValidation,
			Message: "submission rejected",
			Fields:  ve.Fields,
		})
	case errors.Is(err, services.ErrProfileNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "profile not found")
	case errors.Is(err, services.ErrPlanNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "plan not found")
	case errors.Is(err, services.ErrIntegrity):
		fail(c, http.StatusConflict, ErrCodeConflict, "conflicting data in store")
	case errors.Is(err, services.ErrTransient):
		c.Header("Retry-After", "1")
		fail(c, http.StatusServiceUnavailable, ErrCodeUnavailable, "store busy, retry shortly")
	default:
		fail(c, http.StatusInternalServerError, fallbackCode, err.Error())
	}
}

// ok writes a success JSON response.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}
