package service

import "fmt"

// FailureKind classifies why a processing request failed.
type FailureKind string

const (
	// FailureStatus indicates a non-2xx response.
	FailureStatus FailureKind = "status"
	// FailureTransport indicates the request never produced a response.
	FailureTransport FailureKind = "transport"
	// FailureDecode indicates a 2xx response whose body is not the expected JSON.
	FailureDecode FailureKind = "decode"
	// FailureContract indicates a 2xx response missing one of the result fields.
	FailureContract FailureKind = "contract"
	// FailureInternal indicates the client itself broke while handling the request.
	FailureInternal FailureKind = "internal"
)

// RequestFailedError is the single failure class surfaced for a processing request.
type RequestFailedError struct {
	Kind       FailureKind
	StatusCode int
	Message    string
	Cause      error
}

func (e *RequestFailedError) Error() string {
	msg := e.Message
	if msg == "" && e.Cause != nil {
		msg = e.Cause.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("request failed (%s, HTTP %d): %s", e.Kind, e.StatusCode, msg)
	}
	return fmt.Sprintf("request failed (%s): %s", e.Kind, msg)
}

func (e *RequestFailedError) Unwrap() error {
	return e.Cause
}

func failed(kind FailureKind, status int, cause error, format string, args ...any) *RequestFailedError {
	return &RequestFailedError{
		Kind:       kind,
		StatusCode: status,
		Message:    fmt.Sprintf(format, args...),
		Cause:      cause,
	}
}
