package analyze

import (
	"go/token"
	"go/types"
)

// TypeID uniquely identifies a package-level object by package path and name.
type TypeID struct {
	PkgPath string // e.g., "ctor-factory/examples/mailer"
	Name    string // e.g., "NewMailer"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// Constructor describes a function that builds a target type.
type Constructor struct {
	ID           TypeID
	Params       []Param
	Result       types.Type // constructed type
	ReturnsError bool
	Directives   Directives
	// Imports maps the local names of the declaring file's imports, so
	// default expressions can be resolved.
	Imports map[string]ImportRef
	Pos     token.Position
}

// Param describes one constructor parameter.
type Param struct {
	Name string
	Type types.Type
}

// Default returns the default expression of a parameter, if declared.
func (c *Constructor) Default(param string) (string, bool) {
	expr, ok := c.Directives.Defaults[param]
	return expr, ok
}

// Optional reports whether a parameter is declared optional.
func (c *Constructor) Optional(param string) bool {
	return c.Directives.Optional[param]
}

// ImportRef is an imported package as seen from a source file.
type ImportRef struct {
	Path string
	Name string // declared package name
}

// Rejection records a New* function that was not turned into a constructor.
type Rejection struct {
	ID     TypeID
	Reason string
	Pos    token.Position
}

// PackageInfo holds the constructors found in a loaded package.
type PackageInfo struct {
	Path         string // Import path
	Name         string // Package name
	Dir          string // Directory of the package sources
	Types        *types.Package
	Constructors []*Constructor
	Rejected     []Rejection
}

// Graph holds all analyzed packages.
type Graph struct {
	// Packages maps package paths to their package info.
	Packages map[string]*PackageInfo
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{
		Packages: make(map[string]*PackageInfo),
	}
}

// Constructor returns the constructor with the given ID, or nil if not found.
func (g *Graph) Constructor(id TypeID) *Constructor {
	pkg, ok := g.Packages[id.PkgPath]
	if !ok {
		return nil
	}

	for _, c := range pkg.Constructors {
		if c.ID == id {
			return c
		}
	}

	return nil
}

// TargetName returns the fully-qualified name of the nearest named type
// of the constructor result, matching signature.Target.Name.
func (c *Constructor) TargetName() string {
	named, ok := nearestNamed(c.Result)
	if !ok {
		return types.Unalias(c.Result).String()
	}

	obj := named.Obj()
	if obj.Pkg() == nil {
		return obj.Name()
	}

	return obj.Pkg().Path() + "." + obj.Name()
}

// nearestNamed dereferences pointers until it reaches a named type.
func nearestNamed(t types.Type) (*types.Named, bool) {
	t = types.Unalias(t)

	for {
		ptr, ok := t.(*types.Pointer)
		if !ok {
			break
		}

		t = types.Unalias(ptr.Elem())
	}

	named, ok := t.(*types.Named)

	return named, ok
}
