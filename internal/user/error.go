package user

import "errors"

var (
	ErrCannotDeleteAdmin = errors.New("admin accounts cannot be deleted")
	ErrNotAFarmer        = errors.New("user is not a farmer")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrNoUserInResponse  = errors.New("backend response has no user")
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
