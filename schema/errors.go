package schema

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"ctor-factory/internal/naming"
)

var (
	ErrUnknownOption         = errors.New("unknown option")
	ErrUnrecognizedOption    = errors.New("unrecognized option")
	ErrMissingRequiredOption = errors.New("missing required option")
	ErrTypeMismatch          = errors.New("option type mismatch")

	ErrPositionTaken = errors.New("position already taken")
	ErrInvalidOption = errors.New("invalid option definition")
)

// UnknownOptionError is returned when a schema mutation names an option that
// was never defined.
type UnknownOptionError struct {
	Names []string
}

func (e *UnknownOptionError) Error() string {
	return fmt.Sprintf("unknown %s %s", plural("option", len(e.Names)), quoteList(e.Names))
}

func (e *UnknownOptionError) Is(target error) bool { return target == ErrUnknownOption }

// UnrecognizedOptionError lists every supplied key the schema does not know.
type UnrecognizedOptionError struct {
	Names []string
	Known []string
}

func (e *UnrecognizedOptionError) Error() string {
	msg := fmt.Sprintf("unrecognized %s %s", plural("option", len(e.Names)), quoteList(e.Names))
	if len(e.Names) == 1 {
		if s, ok := e.Suggestion(e.Names[0]); ok {
			msg += fmt.Sprintf(", did you mean %q?", s)
		}
	}

	if len(e.Known) > 0 {
		msg += " (known: " + strings.Join(e.Known, ", ") + ")"
	}

	return msg
}

func (e *UnrecognizedOptionError) Is(target error) bool { return target == ErrUnrecognizedOption }

// Suggestion returns the known option closest to an unrecognized name.
func (e *UnrecognizedOptionError) Suggestion(name string) (string, bool) {
	return naming.Suggest(name, e.Known)
}

// MissingRequiredOptionError lists every required option that has neither a
// supplied value nor a default.
type MissingRequiredOptionError struct {
	Names []string
}

func (e *MissingRequiredOptionError) Error() string {
	return fmt.Sprintf("missing required %s %s", plural("option", len(e.Names)), quoteList(e.Names))
}

func (e *MissingRequiredOptionError) Is(target error) bool { return target == ErrMissingRequiredOption }

// TypeMismatch describes one option whose value does not satisfy its
// allowed type.
type TypeMismatch struct {
	Name     string
	Expected reflect.Type
	Actual   reflect.Type
}

func (m TypeMismatch) String() string {
	actual := "nil"
	if m.Actual != nil {
		actual = m.Actual.String()
	}

	return fmt.Sprintf("%q: expected %s, got %s", m.Name, m.Expected, actual)
}

// TypeMismatchError lists every option whose resolved value has the wrong
// type, in definition order.
type TypeMismatchError struct {
	Mismatches []TypeMismatch
}

func (e *TypeMismatchError) Error() string {
	parts := make([]string, len(e.Mismatches))
	for i, m := range e.Mismatches {
		parts[i] = m.String()
	}

	return "option type mismatch: " + strings.Join(parts, "; ")
}

func (e *TypeMismatchError) Is(target error) bool { return target == ErrTypeMismatch }

// Names returns the mismatched option names.
func (e *TypeMismatchError) Names() []string {
	names := make([]string, len(e.Mismatches))
	for i, m := range e.Mismatches {
		names[i] = m.Name
	}

	return names
}

func plural(word string, n int) string {
	if n == 1 {
		return word
	}

	return word + "s"
}

func quoteList(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = fmt.Sprintf("%q", name)
	}

	return strings.Join(quoted, ", ")
}
