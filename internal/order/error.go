package order

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTransition = errors.New("order status transition not allowed")
	ErrUnauthorized      = errors.New("unauthorized")
)

// ValidationError is raised before any backend call. Message is shown to the
// user as is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
