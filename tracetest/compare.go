package tracetest

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"reflect"
	"slices"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

// MismatchError describes where an actual trace diverges from the
// expected one.
type MismatchError struct {
	// Path names the spans leading to the divergence, outermost first.
	Path    []string
	Message string
	// Actual is the recorded content at the divergence point.
	Actual any
}

func (e *MismatchError) Error() string {
	if len(e.Path) == 0 {
		return e.Message
	}

	return strings.Join(e.Path, " > ") + ": " + e.Message
}

// AssertStructure fails t unless spans match expected. It returns whether
// the assertion passed.
func AssertStructure(t assert.TestingT, spans []Span, expected []Expected, strict bool, msgAndArgs ...any) bool {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}

	err := Compare(spans, expected, strict)
	if err == nil {
		return true
	}

	msg := err.Error()

	var mismatch *MismatchError
	if errors.As(err, &mismatch) && mismatch.Actual != nil {
		msg += "\nactual:\n" + spew.Sdump(mismatch.Actual)
	}

	return assert.Fail(t, msg, msgAndArgs...)
}

// Compare checks spans against expected and returns a *MismatchError for
// the first divergence found.
func Compare(spans []Span, expected []Expected, strict bool) error {
	tree := newTree(spans)

	if len(tree.roots) != len(expected) {
		return &MismatchError{
			Message: fmt.Sprintf("Expected %d root spans, but found %d", len(expected), len(tree.roots)),
			Actual:  tree.roots,
		}
	}

	return tree.match(nil, expected, tree.roots, strict)
}

type tree struct {
	roots    []Span
	children map[string][]Span
}

func newTree(spans []Span) *tree {
	ids := make(map[string]struct{}, len(spans))
	for _, s := range spans {
		if s.ID != "" {
			ids[s.ID] = struct{}{}
		}
	}

	t := &tree{children: make(map[string][]Span)}

	for _, s := range spans {
		if _, ok := ids[s.ParentID]; s.ParentID == "" || !ok {
			t.roots = append(t.roots, s)
			continue
		}

		t.children[s.ParentID] = append(t.children[s.ParentID], s)
	}

	return t
}

// match pairs every expected span with a distinct actual span of the same
// name. Order is not significant.
func (t *tree) match(path []string, expected []Expected, actual []Span, strict bool) error {
	results := make(map[[2]int]error)

	compare := func(e, a int) error {
		key := [2]int{e, a}
		if err, ok := results[key]; ok {
			return err
		}

		err := t.compare(path, expected[e], actual[a], strict)
		results[key] = err

		return err
	}

	failed := assign(len(expected), len(actual), func(e, a int) bool {
		return actual[a].Name == expected[e].Name && compare(e, a) == nil
	})
	if failed < 0 {
		return nil
	}

	exp := expected[failed]
	for a, act := range actual {
		if act.Name != exp.Name {
			continue
		}

		if err := compare(failed, a); err != nil {
			return err
		}
	}

	return &MismatchError{
		Path:    path,
		Message: fmt.Sprintf("no span named %q among %v", exp.Name, spanNames(actual)),
		Actual:  actual,
	}
}

// assign looks for a one-to-one pairing of n expected entries with m actual
// entries such that ok holds for every pair, trying every candidate before
// giving up. It returns -1 on success and otherwise the furthest expected
// index that could not be paired.
func assign(n, m int, ok func(e, a int) bool) int {
	used := make([]bool, m)
	failed := -1

	var place func(e int) bool
	place = func(e int) bool {
		if e == n {
			return true
		}

		for a := range m {
			if used[a] || !ok(e, a) {
				continue
			}

			used[a] = true
			if place(e + 1) {
				return true
			}

			used[a] = false
		}

		failed = max(failed, e)

		return false
	}

	if place(0) {
		return -1
	}

	return failed
}

func (t *tree) compare(parent []string, exp Expected, act Span, strict bool) error {
	path := append(slices.Clone(parent), act.Name)

	fail := func(format string, args ...any) error {
		return &MismatchError{Path: path, Message: fmt.Sprintf(format, args...), Actual: act}
	}

	if exp.Kind != KindUnset && exp.Kind != act.Kind {
		return fail("expected kind %s, got %s", exp.Kind, act.Kind)
	}

	if exp.Status != nil {
		if exp.Status.Code != act.Status.Code {
			return fail("expected status %s, got %s", exp.Status.Code, act.Status.Code)
		}

		if (strict || exp.Status.Description != "") && exp.Status.Description != act.Status.Description {
			return fail("expected status description %q, got %q", exp.Status.Description, act.Status.Description)
		}
	}

	if exp.Attributes != nil {
		if msg := compareAttributes(exp.Attributes, act.Attributes, strict); msg != "" {
			return fail("%s", msg)
		}
	}

	if exp.Events != nil {
		if msg := compareEvents(exp.Events, act.Events, strict); msg != "" {
			return fail("%s", msg)
		}
	}

	if exp.Children == nil {
		return nil
	}

	children := t.children[act.ID]
	if strict && len(children) != len(exp.Children) {
		return fail("Expected %d child spans, but found %d", len(exp.Children), len(children))
	}

	if len(children) < len(exp.Children) {
		return fail("Expected at least %d child spans, but found %d", len(exp.Children), len(children))
	}

	return t.match(path, exp.Children, children, strict)
}

func compareAttributes(expected, actual map[string]any, strict bool) string {
	for _, key := range slices.Sorted(maps.Keys(expected)) {
		got, ok := actual[key]
		if !ok {
			return fmt.Sprintf("missing attribute %q", key)
		}

		if !equalValues(expected[key], got) {
			return fmt.Sprintf("attribute %q: expected %#v, got %#v", key, expected[key], got)
		}
	}

	if strict && len(actual) != len(expected) {
		var extra []string

		for key := range actual {
			if _, ok := expected[key]; !ok {
				extra = append(extra, key)
			}
		}

		slices.Sort(extra)

		return fmt.Sprintf("unexpected attributes %v", extra)
	}

	return ""
}

func compareEvents(expected []ExpectedEvent, actual []Event, strict bool) string {
	if strict && len(expected) != len(actual) {
		return fmt.Sprintf("Expected %d events, but found %d", len(expected), len(actual))
	}

	failed := assign(len(expected), len(actual), func(e, a int) bool {
		exp, act := expected[e], actual[a]
		if act.Name != exp.Name {
			return false
		}

		return exp.Attributes == nil || compareAttributes(exp.Attributes, act.Attributes, strict) == ""
	})
	if failed >= 0 {
		return fmt.Sprintf("no matching event named %q", expected[failed].Name)
	}

	return ""
}

// equalValues compares attribute values, treating numbers of different Go
// types as equal when they hold the same value.
func equalValues(expected, actual any) bool {
	return cmp.Equal(normalize(expected), normalize(actual))
}

func normalize(v any) any {
	rv := reflect.ValueOf(v)

	switch {
	case !rv.IsValid():
		return nil
	case rv.CanInt():
		return rv.Int()
	case rv.CanUint():
		if u := rv.Uint(); u <= math.MaxInt64 {
			return int64(u)
		}

		return rv.Uint()
	case rv.CanFloat():
		// whole floats compare equal to the same integer
		f := rv.Float()
		if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
			return int64(f)
		}

		return f
	case rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() != reflect.Uint8:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = normalize(rv.Index(i).Interface())
		}

		return out
	default:
		return v
	}
}

func spanNames(spans []Span) []string {
	names := make([]string, len(spans))
	for i, s := range spans {
		names[i] = s.Name
	}

	return names
}
