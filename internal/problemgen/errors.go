package problemgen

import (
	"errors"
	"fmt"
)

// ErrNoCredential means no API credential is configured, so no remote
// request was attempted.
var ErrNoCredential = errors.New("no API credential configured")

// ErrEmptyBatch means the response parsed but contained no problems.
var ErrEmptyBatch = errors.New("batch contained no problems")

// ErrRequestFailed wraps a transport failure: network, timeout, rate limit
// or a rejected credential.
type ErrRequestFailed struct {
	Err error
}

func (e *ErrRequestFailed) Error() string {
	return fmt.Sprintf("problem request failed: %v", e.Err)
}

func (e *ErrRequestFailed) Unwrap() error { return e.Err }

// ErrMalformedResponse means the response did not have the required shape.
type ErrMalformedResponse struct {
	Content string
	Err     error
}

func (e *ErrMalformedResponse) Error() string {
	return fmt.Sprintf("malformed problem batch: %v", e.Err)
}

func (e *ErrMalformedResponse) Unwrap() error { return e.Err }

// FailureKind classifies why a problem could not be supplied.
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureNoCredential
	FailureRequest
	FailureMalformed
	FailureEmptyBatch
)

func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureNoCredential:
		return "no-credential"
	case FailureRequest:
		return "request-failed"
	case FailureMalformed:
		return "malformed-response"
	case FailureEmptyBatch:
		return "empty-batch"
	}
	return fmt.Sprintf("FailureKind(%d)", int(k))
}

// Classify maps an error from the problem pipeline onto a FailureKind.
// Unrecognised errors count as request failures.
func Classify(err error) FailureKind {
	if err == nil {
		return FailureNone
	}
	var malformed *ErrMalformedResponse
	switch {
	case errors.Is(err, ErrNoCredential):
		return FailureNoCredential
	case errors.Is(err, ErrEmptyBatch):
		return FailureEmptyBatch
	case errors.As(err, &malformed):
		return FailureMalformed
	}
	return FailureRequest
}
