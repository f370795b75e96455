package coerce

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// ErrNotConvertible is returned when no allowed category converts a value.
var ErrNotConvertible = errors.New("value is not convertible")

// Value returns v as a reflect.Value usable where type to is expected.
//
// Values already assignable to `to` are returned untouched. A nil v is
// accepted for nillable types and becomes their zero value. Everything else
// must be converted by one of the allowed categories.
func Value(v any, to reflect.Type, allowed Category) (reflect.Value, error) {
	if v == nil {
		if Nillable(to) {
			return reflect.Zero(to), nil
		}

		return reflect.Value{}, fmt.Errorf("%w: nil to %s", ErrNotConvertible, to)
	}

	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(to) {
		return rv, nil
	}

	out, ok := convert(rv, to, allowed)
	if !ok {
		return reflect.Value{}, fmt.Errorf("%w: %s to %s", ErrNotConvertible, rv.Type(), to)
	}

	return out, nil
}

// Satisfies reports whether v can be used as a value of type to, without
// conversion (allowed == CategoryNone) or through the allowed categories.
func Satisfies(v any, to reflect.Type, allowed Category) bool {
	_, err := Value(v, to, allowed)
	return err == nil
}

func convert(rv reflect.Value, to reflect.Type, allowed Category) (reflect.Value, bool) {
	from, dst := KindOf(rv.Type()), KindOf(to)

	switch {
	case from.IsNumber() && dst.IsNumber():
		if allowed.Has(CategorySafeNumber) && lossless(rv, to) {
			return rv.Convert(to), true
		}

		if allowed.Has(CategoryUnsafeNumber) {
			return rv.Convert(to), true
		}

	case from == KindString && dst.IsNumber():
		if allowed.Has(CategoryTextNumber) {
			return parseNumber(rv.String(), dst, to)
		}

	case from.IsNumber() && dst == KindString:
		if allowed.Has(CategoryTextNumber) {
			return reflect.ValueOf(fmt.Sprint(rv.Interface())).Convert(to), true
		}

	case from == KindString && dst == KindBool:
		if allowed.Has(CategoryTextualBool) {
			return parseBool(rv.String(), to)
		}

	case from == KindString && dst == KindDuration:
		if allowed.Has(CategoryDuration) {
			d, err := time.ParseDuration(rv.String())
			if err != nil {
				return reflect.Value{}, false
			}

			return reflect.ValueOf(d), true
		}

	case from.IsInteger() && dst == KindDuration:
		if allowed.Has(CategoryNanoseconds) && lossless(rv, to) {
			return rv.Convert(to), true
		}

	case from == KindString && dst == KindString:
		if allowed.Has(CategoryEnumString) {
			return rv.Convert(to), true
		}
	}

	return reflect.Value{}, false
}

// lossless reports whether converting rv to `to` and back yields rv again
// without flipping its sign.
func lossless(rv reflect.Value, to reflect.Type) bool {
	c := rv.Convert(to)
	if !c.Convert(rv.Type()).Equal(rv) {
		return false
	}

	// Same-width signed/unsigned conversions survive the round trip.
	return negative(rv) == negative(c)
}

func negative(v reflect.Value) bool {
	switch {
	case v.CanInt():
		return v.Int() < 0
	case v.CanFloat():
		return v.Float() < 0
	default:
		return false
	}
}

func parseNumber(s string, dst Kind, to reflect.Type) (reflect.Value, bool) {
	s = strings.TrimSpace(s)

	switch {
	case dst.IsSigned():
		n, err := strconv.ParseInt(s, 10, to.Bits())
		if err != nil {
			return reflect.Value{}, false
		}

		return reflect.ValueOf(n).Convert(to), true

	case dst.IsUnsigned():
		n, err := strconv.ParseUint(s, 10, to.Bits())
		if err != nil {
			return reflect.Value{}, false
		}

		return reflect.ValueOf(n).Convert(to), true

	default:
		f, err := strconv.ParseFloat(s, to.Bits())
		if err != nil {
			return reflect.Value{}, false
		}

		return reflect.ValueOf(f).Convert(to), true
	}
}

func parseBool(s string, to reflect.Type) (reflect.Value, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on", "1":
		return reflect.ValueOf(true).Convert(to), true
	case "false", "no", "off", "0":
		return reflect.ValueOf(false).Convert(to), true
	default:
		return reflect.Value{}, false
	}
}
