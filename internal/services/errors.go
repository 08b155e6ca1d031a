package services

import "errors"

// ErrForbidden is returned when the caller's role does not hold the
// capability an operation requires. Handlers translate it into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrInvalidInput is returned for missing or malformed request fields.
// Handlers translate it into HTTP 400; the wrapped message is safe to
// return to the caller.
var ErrInvalidInput = errors.New("invalid input")
