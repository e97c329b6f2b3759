package models

import (
	"errors"
	"fmt"
)

// ErrValidation marks malformed or missing input at the API boundary.
var ErrValidation = errors.New("validation failed")

// ValidationError wraps ErrValidation with a client-facing message.
func ValidationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// ProviderTransportError means the provider could not be reached or answered
// with a non-2xx HTTP status.
type ProviderTransportError struct {
	Op  string
	Err error
}

func (e *ProviderTransportError) Error() string {
	return fmt.Sprintf("provider %s: transport: %v", e.Op, e.Err)
}

func (e *ProviderTransportError) Unwrap() error { return e.Err }

// ProviderDataError means the provider answered but the payload is unusable:
// a non-success business code, an empty list or a field that does not parse.
type ProviderDataError struct {
	Op     string
	Code   string
	Reason string
}

func (e *ProviderDataError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("provider %s: code %s: %s", e.Op, e.Code, e.Reason)
	}
	return fmt.Sprintf("provider %s: %s", e.Op, e.Reason)
}

// PersistenceError is a storage failure. It is fatal for the refresh that hit it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsProviderError reports whether err is a recoverable provider-side failure.
func IsProviderError(err error) bool {
	var transport *ProviderTransportError
	var data *ProviderDataError
	return errors.As(err, &transport) || errors.As(err, &data)
}

// IsPersistenceError reports whether err carries a PersistenceError.
func IsPersistenceError(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
