// Package coerce converts option values into declared parameter types.
//
// Conversions are grouped in categories so callers decide how lenient they
// are: declared defaults only get lossless numeric and enum-string
// conversions, while configuration resolution is strict unless a factory
// opts in to more.
package coerce

// Category is a bit set of allowed conversion families.
type Category int

const (
	CategorySafeNumber   Category = 1 << iota // int, uint, float without precision loss
	CategoryUnsafeNumber                      // int, uint, float with precision loss
	CategoryTextNumber                        // int, uint, float <-> string: textual number representation
	CategoryTextualBool                       // string -> bool: yes, no, on, off, true, false
	CategoryDuration                          // string(2h45m) -> time.Duration
	CategoryNanoseconds                       // integer(nanoseconds) -> time.Duration
	CategoryEnumString                        // string <-> named string type

	CategoryAll  Category = (1 << iota) - 1 // all categories combined
	CategoryNone Category = 0               // no categories selected

	// CategoryDefault is applied to defaults declared in constructor descriptors.
	CategoryDefault = CategorySafeNumber | CategoryEnumString
)

// Has reports whether every bit of other is set in c.
func (c Category) Has(other Category) bool {
	return c&other == other
}
