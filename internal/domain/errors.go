package domain

import "errors"

// ErrNotFound is returned when the requested resource does not exist.
// Handlers map this to HTTP 404; the API client maps 404 back to it.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails business rule validation
// (e.g. missing required field, exit date not after entry date).
// Validation always happens before any network or database call.
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrInvalidTransition is returned by the onboarding state machine when an
// operation is attempted from a state that does not allow it.
var ErrInvalidTransition = errors.New("invalid state transition")
