// Package apperr holds the error taxonomy shared by the wizard, follow and chat components.
// Callers test with errors.Is against the sentinels below.
package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrValidation       = errors.New("validation failed")
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrBusy             = errors.New("a response is still in progress")
	ErrStorageCorrupt   = errors.New("stored value is corrupt")
	ErrNotFound         = errors.New("not found")
	ErrInvalidState     = errors.New("operation not allowed in current state")
	ErrSessionClosed    = errors.New("session closed")
)

// ValidationError carries field-level messages for one wizard step or request body.
type ValidationError struct {
	Step   int               `json:"step,omitempty"`
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	if e.Step > 0 {
		return fmt.Sprintf("step %d: %s", e.Step, strings.Join(parts, "; "))
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError builds a single-field validation error.
func NewValidationError(step int, field, message string) *ValidationError {
	return &ValidationError{Step: step, Fields: map[string]string{field: message}}
}

// CapacityError reports which limit was hit. It matches ErrCapacityExceeded.
type CapacityError struct {
	Resource string `json:"resource"`
	Limit    int    `json:"limit"`
	Used     int    `json:"used"`
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%s limit reached (%d/%d)", e.Resource, e.Used, e.Limit)
}

func (e *CapacityError) Is(target error) bool {
	return target == ErrCapacityExceeded
}

// NotFound wraps ErrNotFound with the kind and id that were missing.
func NotFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}
