// Package services defines the business logic for profile synchronization,
// plan generation, and feedback ingestion. This file centralizes the
// service-level error values so that they can be consistently returned by
// service methods and checked by callers with errors.Is / errors.As.
//
// Translation into user-facing messages or HTTP status codes is performed at
// the handler layer.
package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrProfileNotFound indicates that the requested profile does not exist.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrPlanNotFound indicates that the requested plan does not exist or is
	// not owned by the given profile.
	ErrPlanNotFound = errors.New("plan not found")

	// ErrIntegrity wraps unique, check and foreign key violations raised by
	// the store.
	ErrIntegrity = errors.New("integrity violation")

	// ErrTransient wraps lock contention (SQLITE_BUSY / SQLITE_LOCKED). The
	// operation may succeed if retried.
	ErrTransient = errors.New("store busy")
)

// FieldError is a single rejected input field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError lists every field a submission failed on. It is returned
// before any write happens.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Reason)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, reason string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Reason: reason})
}

// err returns nil when no field failed, with fields sorted for stable output.
func (e *ValidationError) err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	sort.SliceStable(e.Fields, func(i, j int) bool { return e.Fields[i].Field < e.Fields[j].Field })
	return e
}

// IsValidation reports whether err carries a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// classifyStoreError maps a driver or gorm error onto the service error
// kinds. Errors that are already classified pass through unchanged.
func classifyStoreError(err error) error {
	if err == nil {
		return nil
	}
	var ve *ValidationError
	switch {
	case errors.As(err, &ve),
		errors.Is(err, ErrProfileNotFound),
		errors.Is(err, ErrPlanNotFound),
		errors.Is(err, ErrIntegrity),
		errors.Is(err, ErrTransient):
		return err
	case errors.Is(err, gorm.ErrDuplicatedKey),
		errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %v", ErrIntegrity, err)
	}

	low := strings.ToLower(err.Error())
	switch {
	case strings.Contains(low, "unique constraint"),
		strings.Contains(low, "foreign key constraint"),
		strings.Contains(low, "constraint failed"):
		return fmt.Errorf("%w: %v", ErrIntegrity, err)
	case strings.Contains(low, "database is locked"),
		strings.Contains(low, "database table is locked"),
		strings.Contains(low, "busy"):
		return fmt.Errorf("%w: %v", ErrTransient, err)
	}
	return err
}
