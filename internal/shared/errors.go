package shared

import "errors"

var (
	// ErrNotFound indicates a referenced entity is absent.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument indicates a business rule rejected the request.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrConflict indicates the request lost a race against a concurrent mutation.
	ErrConflict = errors.New("conflict")
)
