package domain

import "errors"

var (
	// Common domain errors
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrEmptyPayload        = errors.New("payload text is empty")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrInvalidExecContext  = errors.New("invalid execution context")
	ErrReadDatabaseRow     = errors.New("failed to read database row")
	ErrStoreUnavailable    = errors.New("data store unavailable")
)
