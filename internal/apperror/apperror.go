// Package apperror defines the error classes every layer reports through.
// The HTTP server maps them to status codes in one place.
package apperror

import "errors"

var (
	// ErrValidation covers malformed or missing input.
	ErrValidation = errors.New("validation error")
	// ErrNotFound covers unknown plans and orders.
	ErrNotFound = errors.New("not found")
	// ErrForbidden covers email mismatches and missing/invalid admin sessions.
	ErrForbidden = errors.New("forbidden")
	// ErrUpstream covers failed calls to the data store, storage bucket or
	// payment gateway.
	ErrUpstream = errors.New("upstream error")
	// ErrConflict is declared for completeness; status transitions do not
	// conflict-check, so nothing reports it today.
	ErrConflict = errors.New("conflict")
)

func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }
func IsNotFound(err error) bool   { return errors.Is(err, ErrNotFound) }
func IsForbidden(err error) bool  { return errors.Is(err, ErrForbidden) }
