// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// These codes give clients a stable, machine-readable error taxonomy next to
// the human-readable message. Handlers pick the most specific code and pass
// it to fail() together with the HTTP status.
//
// Conventions:
//   - Codes are lowercase snake_case.
//   - Generic codes mirror HTTP status semantics.
//   - validation_failed responses also carry the per-field reasons.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "validation_failed",
//	  "message": "submission rejected",
//	  "fields": [{"field": "goal", "reason": "is required"}]
//	}
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeConflict         = "conflict"
	ErrCodeRateLimited      = "too_many_requests"
	ErrCodeUnavailable      = "store_busy"
	ErrCodeInternal         = "internal_error"
	ErrCodeMethodNotAllowed = "method_not_allowed"

	// Domain-specific:
	ErrCodeValidation   = "validation_failed"
	ErrCodeSubmitFailed = "submit_failed"
	ErrCodeListFailed   = "list_failed"
)
