package services

import "errors"

// Each sentinel corresponds to one client-facing status. Wrap them with
// fmt.Errorf("%w: detail") to attach a message that is safe to return.
var (
	ErrValidation         = errors.New("validation failed")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
