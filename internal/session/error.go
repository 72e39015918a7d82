package session

import "errors"

var (
	ErrNoSession = errors.New("no signed-in user for this session")
	ErrEmptyKey  = errors.New("session id and user id must not be empty")
)
