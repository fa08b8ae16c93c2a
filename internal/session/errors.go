package session

import "errors"

var (
	// ErrAppointmentNotFound is returned when no appointment matches the id
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrInvalidTransition is returned for a status change the lifecycle forbids
	ErrInvalidTransition = errors.New("invalid appointment status transition")

	// ErrNoUser is returned when an operation requires a logged-in user
	ErrNoUser = errors.New("no user in session")
)
