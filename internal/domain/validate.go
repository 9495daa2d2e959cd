package domain

import (
	"fmt"
	"strings"
)

// ValidationError reports a failed write-time schema check. Handlers map it
// to HTTP 400; every other error is treated as a store failure.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// missingFields turns the list of absent required fields into a single
// validation error, or nil when the list is empty.
func missingFields(fields []string) error {
	if len(fields) == 0 {
		return nil
	}
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s is required", f))
	}
	return &ValidationError{Message: "validation failed: " + strings.Join(parts, "; ")}
}
