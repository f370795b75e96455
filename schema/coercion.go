package schema

import "ctor-factory/internal/coerce"

// Coercion selects which conversions Resolve may apply to supplied values
// before checking them against allowed types.
type Coercion = coerce.Category

// Conversion families for WithCoercion. They combine with |.
const (
	CoerceSafeNumber   = coerce.CategorySafeNumber   // lossless numeric conversion
	CoerceUnsafeNumber = coerce.CategoryUnsafeNumber // numeric conversion that may truncate
	CoerceTextNumber   = coerce.CategoryTextNumber   // "42" -> 42
	CoerceTextualBool  = coerce.CategoryTextualBool  // "yes", "off" -> bool
	CoerceDuration     = coerce.CategoryDuration     // "1m30s" -> time.Duration
	CoerceNanoseconds  = coerce.CategoryNanoseconds  // int64 -> time.Duration
	CoerceEnumString   = coerce.CategoryEnumString   // string -> named string type

	CoerceAll  = coerce.CategoryAll
	CoerceNone = coerce.CategoryNone
)
