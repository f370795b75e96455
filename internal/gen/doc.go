// Package gen writes constructor descriptor files for the ctor generator.
//
// Generation uses text/template + go/format. Each package with constructors
// gets one <package>_ctor_gen.go file whose init function registers every
// constructor with the target registry, naming its parameters and carrying
// the defaults and optional markers from ctor: directives.
package gen
