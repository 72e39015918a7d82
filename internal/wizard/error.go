package wizard

import (
	"errors"

	"agrimarket/internal/gateway"
	"agrimarket/internal/media"
)

var (
	ErrAtFinalStep  = errors.New("already on the final step, submit instead")
	ErrNotFinalStep = errors.New("submit is only available on the final step")
	ErrSubmitting   = errors.New("submission already in progress")
	ErrCompleted    = errors.New("wizard already completed")
	ErrNoSteps      = errors.New("wizard needs at least one step")
)

// ValidationError names the first field that blocked a step.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Message turns a submission failure into the text shown to the user.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, media.ErrUploadFailed), errors.Is(err, media.ErrNotConfigured), errors.Is(err, media.ErrEmptyFile):
		return media.Reason(err)
	default:
		return gateway.Message(err)
	}
}
