package services

import (
	"errors"
	"fmt"

	"github.com/microsite-ads/backend/internal/store"
)

// Error kinds. Handlers map them to HTTP status codes with errors.Is.
var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("validation failed")
	ErrUpstream    = errors.New("ads platform error")
	ErrPersistence = errors.New("failed to save campaign config")
)

func notFound(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func persistence(err error) error {
	if errors.Is(err, store.ErrStaleWrite) {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return fmt.Errorf("%w: %v", ErrPersistence, err)
}

// upstreamError keeps the adapter's message verbatim.
type upstreamError struct {
	cause error
}

func (e *upstreamError) Error() string   { return e.cause.Error() }
func (e *upstreamError) Unwrap() []error { return []error{ErrUpstream, e.cause} }

func upstream(err error) error {
	return &upstreamError{cause: err}
}
