package service

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel kinds for service errors. Callers match them with errors.Is.
var (
	// ErrValidation marks input the caller can fix; nothing was written.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a point lookup that found nothing.
	ErrNotFound = errors.New("not found")
	// ErrStorage marks a failed store operation. Earlier steps of the
	// same workflow may already be durable.
	ErrStorage = errors.New("storage failure")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func storage(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}

// Reason returns the caller-facing part of a validation error.
func Reason(err error) string {
	return strings.TrimPrefix(err.Error(), ErrValidation.Error()+": ")
}
