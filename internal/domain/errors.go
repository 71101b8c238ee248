package domain

import "errors"

// Sentinel errors for the check-in flow. Repositories and services return
// these (optionally wrapped) so the transport layer can translate them into
// status codes with errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidSeat       = errors.New("seat number out of range")
	ErrSeatConflict      = errors.New("seat already taken")
	ErrAlreadyRegistered = errors.New("booking already registered")
	ErrFlightNotAssigned = errors.New("booking has no flight assigned")
	ErrIdentityMismatch  = errors.New("passport data does not match any passenger")
	ErrUsernameTaken     = errors.New("username already taken")
	ErrGenerationFailure = errors.New("boarding pass generation failed")
)
