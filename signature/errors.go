package signature

import (
	"errors"
	"fmt"
)

// ErrInvalidTarget matches every *InvalidTargetError.
var ErrInvalidTarget = errors.New("invalid target")

// InvalidTargetError reports a target whose construction contract cannot be
// resolved.
type InvalidTargetError struct {
	Target string
	Err    error
}

func (e *InvalidTargetError) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("invalid target: %v", e.Err)
	}

	return fmt.Sprintf("invalid target %s: %v", e.Target, e.Err)
}

func (e *InvalidTargetError) Unwrap() error { return e.Err }

func (e *InvalidTargetError) Is(target error) bool {
	return target == ErrInvalidTarget
}

func invalid(target string, format string, args ...any) *InvalidTargetError {
	return &InvalidTargetError{Target: target, Err: fmt.Errorf(format, args...)}
}
