package entity

import "errors"

var (
	// ErrNotFound is returned when a document, line or template does not exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidState is returned when an action is attempted from a status that forbids it
	ErrInvalidState = errors.New("invalid document state")

	// ErrForbiddenActor is returned when the caller is not the assigned approver or owner
	ErrForbiddenActor = errors.New("actor not permitted")

	// ErrNotYourTurn is returned when a line is acted on while a lower-seq line is still pending
	ErrNotYourTurn = errors.New("not this line's turn")

	// ErrValidation is returned for malformed input, such as a blank rejection comment
	ErrValidation = errors.New("validation failed")

	// ErrConflict is returned when a concurrent mutation won the race on the same line
	ErrConflict = errors.New("concurrent modification conflict")
)
