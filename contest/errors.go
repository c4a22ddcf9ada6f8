// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package contest

import (
	"errors"
	"fmt"
)

var (
	// ErrLocked is returned by Submit once this device has an accepted submission
	ErrLocked = errors.New("already submitted: this device is locked for the contest")
	// ErrSubmitInFlight is returned while another submission is outstanding
	ErrSubmitInFlight = errors.New("a submission is already in progress")
	// ErrIdentityLocked is returned when the name is changed after submitting began
	ErrIdentityLocked = errors.New("name cannot change once a submission has started")
	// ErrUnauthorized is returned by judge operations before Authorize succeeds
	ErrUnauthorized = errors.New("judge access not authorized")
)

// ValidationError rejects input before any network call is made
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// BackendRejectedError is a non-2xx answer, or a 2xx answer carrying an
// error detail. Error returns the backend's detail verbatim.
type BackendRejectedError struct {
	StatusCode int
	Detail     string
}

func (e *BackendRejectedError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Detail
}

// NetworkError means the backend could not be reached or answered with
// something unreadable.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "network error: could not reach the contest server"
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
