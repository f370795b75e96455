// Package signature describes how a target type is constructed.
//
// Go keeps no parameter names or default values at runtime, so a Target
// carries its construction contract explicitly:
//   - Func: a constructor function plus one Param descriptor per argument
//   - Struct: a struct whose exported fields are the parameters, configured
//     with `option` and `default` tags
//   - Zero: a type without a constructor, built from its zero value
//
// Inspect turns a Target into ordered Parameter descriptors with canonical
// snake_case names.
package signature
