package protocol

import (
	"errors"
	"fmt"
)

// ValidationError reports an instance that does not conform to the schema
// at URI.
type ValidationError struct {
	URI string
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("does not conform to %s: %v", e.URI, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// RequestError reports an outgoing request that failed validation.
// This is a harness defect, never a case-level condition.
type RequestError struct {
	Command string
	Err     error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("invalid %s request: %v", e.Command, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// ProtocolError reports a response that is not JSON or fails validation.
// It is fatal to the one exchange that produced it.
type ProtocolError struct {
	Command string
	Err     error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("invalid %s response: %v", e.Command, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// VersionMismatchError reports an implementation speaking another protocol
// version. It is fatal to the implementation's whole run.
type VersionMismatchError struct {
	Expected int
	Got      int
}

func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf("protocol version mismatch: expected %d, got %d", e.Expected, e.Got)
}

// ErrImplementationNotReady reports a start response with ready set to false.
// It is fatal to the implementation's whole run.
var ErrImplementationNotReady = errors.New("implementation reported it is not ready")

// IsProtocolError returns true if err is or wraps a ProtocolError.
func IsProtocolError(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe)
}

// IsVersionMismatch returns true if err is or wraps a VersionMismatchError.
func IsVersionMismatch(err error) bool {
	var ve *VersionMismatchError
	return errors.As(err, &ve)
}

// IsFatal returns true for errors that must abort an implementation's run
// rather than a single exchange.
func IsFatal(err error) bool {
	return IsVersionMismatch(err) || errors.Is(err, ErrImplementationNotReady)
}
