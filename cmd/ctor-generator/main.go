// Package main provides the CLI entrypoint for ctor-generator.
//
// ctor-generator loads Go packages, finds their New* constructors and writes
// a <pkg>_ctor_gen.go file per package that registers every constructor with
// the default registry, so factories can be created by target name.
//
// Usage:
//
//	ctor-generator [flags] <package patterns>
package main

import (
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
