package schema

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	intType    = reflect.TypeOf(0)
	stringType = reflect.TypeOf("")
)

func newTestSchema(t *testing.T) *Schema {
	t.Helper()

	s := New()
	require.NoError(t, s.Define(0, "a"))
	require.NoError(t, s.Define(1, "b"))
	require.NoError(t, s.MarkRequired("a"))
	s.SetDefault("b", 5)
	require.NoError(t, s.SetAllowedType("a", intType))
	require.NoError(t, s.SetAllowedType("b", intType))

	return s
}

func TestSchema_Completeness(t *testing.T) {
	s := newTestSchema(t)

	assert.Equal(t, []string{"a", "b"}, s.Positional())
	assert.Equal(t, []string{"a"}, s.Required())
	assert.Equal(t, map[string]any{"b": 5}, s.Defaults())
}

func TestSchema_DefineIsIdempotent(t *testing.T) {
	s := New()
	require.NoError(t, s.Define(0, "a"))
	require.NoError(t, s.Define(1, "b"))
	require.NoError(t, s.Define(5, "a"))

	pos, ok := s.Position("a")
	require.True(t, ok)
	assert.Equal(t, 0, pos)
	assert.Equal(t, []string{"a", "b"}, s.Positional())
}

func TestSchema_DefineErrors(t *testing.T) {
	s := New()
	require.NoError(t, s.Define(0, "a"))

	require.ErrorIs(t, s.Define(0, "b"), ErrPositionTaken)
	require.ErrorIs(t, s.Define(1, ""), ErrInvalidOption)
	require.ErrorIs(t, s.Define(-1, "c"), ErrInvalidOption)
	assert.False(t, s.IsDefined("b"))
}

func TestSchema_DefaultOnlyOptionGainsPosition(t *testing.T) {
	s := New()
	s.SetDefault("timeout", 30)

	assert.True(t, s.IsDefined("timeout"))
	assert.Empty(t, s.Positional())

	require.NoError(t, s.Define(0, "timeout"))
	assert.Equal(t, []string{"timeout"}, s.Positional())
	assert.Equal(t, []string{"timeout"}, s.Names())
}

func TestSchema_MarkRequiredUnknown(t *testing.T) {
	s := New()
	require.NoError(t, s.Define(0, "a"))

	err := s.MarkRequired("a", "x", "y")
	require.ErrorIs(t, err, ErrUnknownOption)

	var unknownErr *UnknownOptionError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, []string{"x", "y"}, unknownErr.Names)
	assert.Empty(t, s.Required(), "nothing is marked when a name is unknown")
}

func TestSchema_SetAllowedTypeUnknown(t *testing.T) {
	err := New().SetAllowedType("nope", intType)
	require.ErrorIs(t, err, ErrUnknownOption)
	assert.EqualError(t, err, `unknown option "nope"`)
}

func TestSchema_SetAllowedTypeEmptyInterfaceClears(t *testing.T) {
	s := newTestSchema(t)
	require.NoError(t, s.SetAllowedType("a", reflect.TypeOf((*any)(nil)).Elem()))

	_, ok := s.AllowedType("a")
	assert.False(t, ok)

	resolved, err := s.Resolve(map[string]any{"a": "anything"})
	require.NoError(t, err)
	assert.Equal(t, "anything", resolved["a"])
}

func TestSchema_SetDefaultsSortedAndAugmenting(t *testing.T) {
	s := newTestSchema(t)
	s.SetDefaults(map[string]any{"z": 1, "c": 2, "b": 9})

	assert.Equal(t, []string{"a", "b", "c", "z"}, s.Names())
	assert.Equal(t, map[string]any{"b": 9, "c": 2, "z": 1}, s.Defaults())

	v, ok := s.Default("c")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestResolve_Success(t *testing.T) {
	s := newTestSchema(t)

	resolved, err := s.Resolve(map[string]any{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, Resolved{"a": 1, "b": 5}, resolved)

	resolved, err = s.Resolve(map[string]any{"a": 1, "b": 2})
	require.NoError(t, err)
	assert.Equal(t, Resolved{"a": 1, "b": 2}, resolved)
}

func TestResolve_OptionalWithoutDefaultIsOmitted(t *testing.T) {
	s := New()
	require.NoError(t, s.Define(0, "a"))
	require.NoError(t, s.Define(1, "b"))

	resolved, err := s.Resolve(map[string]any{})
	require.NoError(t, err)
	assert.Empty(t, resolved)
}

func TestResolve_MissingRequiredNamesAll(t *testing.T) {
	s := New()
	require.NoError(t, s.Define(0, "a"))
	require.NoError(t, s.Define(1, "b"))
	require.NoError(t, s.Define(2, "c"))
	require.NoError(t, s.MarkRequired("a", "c"))

	_, err := s.Resolve(map[string]any{})
	require.ErrorIs(t, err, ErrMissingRequiredOption)

	var missingErr *MissingRequiredOptionError
	require.ErrorAs(t, err, &missingErr)
	assert.Equal(t, []string{"a", "c"}, missingErr.Names)
	assert.EqualError(t, err, `missing required options "a", "c"`)
}

func TestResolve_RequiredSatisfiedByDefault(t *testing.T) {
	s := newTestSchema(t)
	s.SetDefault("a", 7)

	resolved, err := s.Resolve(nil)
	require.NoError(t, err)
	assert.Equal(t, Resolved{"a": 7, "b": 5}, resolved)
}

func TestResolve_UnrecognizedNamesAll(t *testing.T) {
	s := New()
	require.NoError(t, s.Define(0, "a"))

	_, err := s.Resolve(map[string]any{"a": 1, "z": 2, "y": 3})
	require.ErrorIs(t, err, ErrUnrecognizedOption)

	var unrecognizedErr *UnrecognizedOptionError
	require.ErrorAs(t, err, &unrecognizedErr)
	assert.Equal(t, []string{"y", "z"}, unrecognizedErr.Names)
	assert.Equal(t, []string{"a"}, unrecognizedErr.Known)
}

func TestResolve_UnrecognizedBeforeMissing(t *testing.T) {
	s := newTestSchema(t)

	_, err := s.Resolve(map[string]any{"z": 1})
	require.ErrorIs(t, err, ErrUnrecognizedOption)
	assert.NotErrorIs(t, err, ErrMissingRequiredOption)
}

func TestResolve_TypeMismatchNamesAll(t *testing.T) {
	s := newTestSchema(t)

	_, err := s.Resolve(map[string]any{"a": "one", "b": "two"})
	require.ErrorIs(t, err, ErrTypeMismatch)

	var mismatchErr *TypeMismatchError
	require.ErrorAs(t, err, &mismatchErr)
	assert.Equal(t, []string{"a", "b"}, mismatchErr.Names())
	assert.Equal(t, intType, mismatchErr.Mismatches[0].Expected)
	assert.Equal(t, stringType, mismatchErr.Mismatches[0].Actual)
	assert.Contains(t, err.Error(), `"a": expected int, got string`)
}

func TestResolve_TypeMismatchOnDefault(t *testing.T) {
	s := newTestSchema(t)
	s.SetDefault("b", "five")

	_, err := s.Resolve(map[string]any{"a": 1})

	var mismatchErr *TypeMismatchError
	require.ErrorAs(t, err, &mismatchErr)
	assert.Equal(t, []string{"b"}, mismatchErr.Names())
}

func TestResolve_NilValue(t *testing.T) {
	s := newTestSchema(t)

	_, err := s.Resolve(map[string]any{"a": nil})

	var mismatchErr *TypeMismatchError
	require.ErrorAs(t, err, &mismatchErr)
	assert.Nil(t, mismatchErr.Mismatches[0].Actual)
	assert.Contains(t, err.Error(), "got nil")
}

func TestResolve_Coercion(t *testing.T) {
	s := New(WithCoercion(CoerceTextNumber | CoerceDuration))
	require.NoError(t, s.Define(0, "retries"))
	require.NoError(t, s.Define(1, "timeout"))
	require.NoError(t, s.SetAllowedType("retries", intType))
	require.NoError(t, s.SetAllowedType("timeout", reflect.TypeOf(time.Duration(0))))

	resolved, err := s.Resolve(map[string]any{"retries": "4", "timeout": "1m"})
	require.NoError(t, err)
	assert.Equal(t, Resolved{"retries": 4, "timeout": time.Minute}, resolved)

	s.SetCoercion(CoerceNone)
	assert.Equal(t, CoerceNone, s.Coercion())

	_, err = s.Resolve(map[string]any{"retries": "4"})
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func TestResolve_DoesNotMutateSchema(t *testing.T) {
	s := newTestSchema(t)
	before := s.Defaults()

	_, err := s.Resolve(map[string]any{"a": 1, "b": 2})
	require.NoError(t, err)

	_, err = s.Resolve(map[string]any{"x": 1})
	require.Error(t, err)

	assert.Equal(t, before, s.Defaults())
	assert.Equal(t, []string{"a", "b"}, s.Names())
}

func TestUnrecognizedOptionError_Suggestion(t *testing.T) {
	s := New()
	require.NoError(t, s.Define(0, "name"))
	require.NoError(t, s.Define(1, "retries"))

	_, err := s.Resolve(map[string]any{"name": "x", "retires": 3})
	require.Error(t, err)
	assert.Equal(t, `unrecognized option "retires", did you mean "retries"? (known: name, retries)`, err.Error())

	_, err = s.Resolve(map[string]any{"colour": "red"})
	assert.NotContains(t, err.Error(), "did you mean")
}
