// Package analyze finds constructor functions in Go packages.
//
// It uses golang.org/x/tools/go/packages with AST and go/types to collect
// every top-level New or NewX function together with its parameter names
// and types, its result shape and the ctor: directives of its doc comment.
//
// Key types:
//   - Constructor: a constructor function and its parameters
//   - Directives: defaults, optional parameters and skip markers
//   - Rejection: a NewX function that cannot be described, with the reason
//
// A constructor must build a type declared in its own package.
package analyze
