// Package apperrors defines the error kinds the service reports across its
// HTTP boundary. Persistence faults are propagated as SaveFailureError rather
// than collapsed into an empty result, so callers can always tell a failed
// write from a successful one.
package apperrors

import "errors"

// ErrNotFound reports that no user record exists for the given identifier.
var ErrNotFound = errors.New("user not found")

// ErrBadCredentials reports a failed authentication attempt. The message is
// deliberately generic; it must not reveal which factor was wrong.
var ErrBadCredentials = errors.New("invalid credentials")

// DuplicateEntryError reports a registration that collides with an existing
// record on one or more uniqueness-constrained fields.
type DuplicateEntryError struct {
	Message string
}

func (e *DuplicateEntryError) Error() string {
	return e.Message
}

// SaveFailureError reports a persistence fault during a write.
type SaveFailureError struct {
	Err error
}

func (e *SaveFailureError) Error() string {
	return "failed to save user: " + e.Err.Error()
}

func (e *SaveFailureError) Unwrap() error {
	return e.Err
}
