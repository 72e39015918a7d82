package gateway

import (
	"errors"
	"fmt"
)

type Kind string

const (
	// KindNetwork means the backend could not be reached.
	KindNetwork Kind = "network"
	// KindApplication means the backend answered with a non-2xx status.
	KindApplication Kind = "application"
	// KindNotFound is an application failure with status 404.
	KindNotFound Kind = "not_found"
)

var (
	ErrNetwork     = errors.New("backend unreachable")
	ErrApplication = errors.New("backend rejected request")
	ErrNotFound    = errors.New("record not found")
)

// Error is the single failure type returned by the gateway.
type Error struct {
	Kind    Kind
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Message, e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// UserMessage is the text shown in a notification.
func (e *Error) UserMessage() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrNetwork:
		return e.Kind == KindNetwork
	case ErrApplication:
		return e.Kind == KindApplication || e.Kind == KindNotFound
	case ErrNotFound:
		return e.Kind == KindNotFound
	}
	return false
}

// Message extracts a human readable message from any error, preferring the
// backend-provided text.
func Message(err error) string {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr.UserMessage()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
