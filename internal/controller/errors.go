package controller

import (
	"errors"
	"fmt"
)

var (
	// ErrInFlight is returned by Submit while another request is outstanding.
	// Callers drop it without telling the user.
	ErrInFlight = errors.New("a request is already in flight")
	// ErrStaleOutcome is returned by Settle for an outcome that does not belong
	// to the outstanding request.
	ErrStaleOutcome = errors.New("outcome does not match the outstanding request")

	ErrNothingToCopy     = errors.New("nothing to copy")
	ErrNothingToDownload = errors.New("nothing to download")
)

// ValidationError reports input that was rejected before any network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// CapabilityUnavailableError reports a copy or download that could not happen.
type CapabilityUnavailableError struct {
	Action string
	Err    error
}

func (e *CapabilityUnavailableError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Action, e.Err)
}

func (e *CapabilityUnavailableError) Unwrap() error {
	return e.Err
}
