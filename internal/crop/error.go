package crop

import (
	"errors"

	"agrimarket/internal/media"
)

var (
	ErrAdminApprovalRequired = errors.New("pending crops can only be approved by an admin")
	ErrStatusNotAllowed      = errors.New("crop status change not allowed")
	ErrUnauthorized          = errors.New("unauthorized")
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// UploadError aborts an add before anything is sent to the backend.
type UploadError struct {
	Err error
}

func (e *UploadError) Error() string {
	return "Image upload failed: " + media.Reason(e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}
