package runner

import (
	"errors"
	"fmt"
)

// Setup phases.
const (
	PhaseStart   = "start"
	PhaseDialect = "dialect"
)

// ErrStopped is returned for cases submitted after Stop.
var ErrStopped = errors.New("runner stopped")

// SetupError reports a failed handshake. The stream is unusable.
type SetupError struct {
	Phase string
	Err   error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Phase, e.Err)
}

func (e *SetupError) Unwrap() error { return e.Err }

// DialectRefusedError reports an implementation that does not support the
// requested dialect.
type DialectRefusedError struct {
	Implementation string
	Dialect        string
}

func (e *DialectRefusedError) Error() string {
	return fmt.Sprintf("%s does not support dialect %s", e.Implementation, e.Dialect)
}

// IsSetupError reports whether err came from a failed handshake.
func IsSetupError(err error) bool {
	var se *SetupError
	return errors.As(err, &se)
}

// IsDialectRefused reports whether err is a DialectRefusedError.
func IsDialectRefused(err error) bool {
	var de *DialectRefusedError
	return errors.As(err, &de)
}
