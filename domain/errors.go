package domain

import "errors"

var (
	// ErrNotFound marks a missing hotel, room type, pricing rule or pricing row.
	ErrNotFound = errors.New("not found")

	// ErrValidation marks malformed caller input.
	ErrValidation = errors.New("validation error")

	// ErrConflict marks a write that collides with an existing record.
	ErrConflict = errors.New("conflict")
)
