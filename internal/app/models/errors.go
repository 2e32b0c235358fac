package models

import "errors"

// Domain specific errors.
var (
	ErrUnauthenticated = errors.New("authentication required or invalid credentials")
	ErrBadRequest      = errors.New("bad request")
	ErrValidation      = errors.New("validation failed")
	ErrProviderMissing = errors.New("identity provider not configured")
)
