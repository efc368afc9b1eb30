package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrConflict           = errors.New("conflicts with an existing record")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("access forbidden")
	ErrIntegrity          = errors.New("stored data failed an integrity check")
	ErrGateway            = errors.New("telecom gateway request failed")
)
