package models

import "errors"

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource already exists")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrBadRequest     = errors.New("bad request")
	ErrInternalServer = errors.New("internal server error")

	// Order state errors
	ErrOrderAlreadyCancelled = errors.New("order is already cancelled")
	ErrNotEnoughStock        = errors.New("need more stock")
)
