package audit

import "errors"

var (
	ErrInvalidEntry = errors.New("audit entry needs actor, action and target")
)
