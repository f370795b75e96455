package factory

import (
	"errors"
	"fmt"
)

var (
	ErrConstruction = errors.New("construction failed")
	ErrPositionGap  = errors.New("positional gap")
)

// ConstructionError wraps a failure of the target constructor that happened
// after the arguments were bound.
type ConstructionError struct {
	Target string
	Err    error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("construct %s: %v", e.Target, e.Err)
}

func (e *ConstructionError) Unwrap() error { return e.Err }

func (e *ConstructionError) Is(target error) bool { return target == ErrConstruction }

// PositionGapError is returned by factories created WithGapCheck when an
// option is supplied after an omitted positional option.
type PositionGapError struct {
	Missing  string
	Supplied string
}

func (e *PositionGapError) Error() string {
	return fmt.Sprintf("option %q is set but the earlier positional option %q is not", e.Supplied, e.Missing)
}

func (e *PositionGapError) Is(target error) bool { return target == ErrPositionGap }
