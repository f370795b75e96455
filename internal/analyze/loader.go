package analyze

import (
	"fmt"
	"go/ast"
	"go/types"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/tools/go/packages"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// ConstructorPrefix is the name prefix of constructor functions.
const ConstructorPrefix = "New"

var errorType = types.Universe.Lookup("error").Type()

// Analyzer loads Go packages and collects their constructors.
type Analyzer struct {
	graph *Graph
	// Dir is the working directory for package patterns. Empty means the
	// current directory.
	Dir string
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		graph: NewGraph(),
	}
}

// LoadPackages loads the specified packages and collects their constructors.
// Patterns are standard Go package patterns (e.g., "./mailer", "ctor-factory/examples/...").
func (a *Analyzer) LoadPackages(patterns ...string) (*Graph, error) {
	cfg := &packages.Config{
		Mode: LoadMode,
		Dir:  a.Dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	// Check for package errors
	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %v", errs)
	}

	for _, pkg := range pkgs {
		a.processPackage(pkg)
	}

	return a.graph, nil
}

// Graph returns the current graph.
func (a *Analyzer) Graph() *Graph {
	return a.graph
}

// processPackage collects the constructors declared in a loaded package.
func (a *Analyzer) processPackage(pkg *packages.Package) {
	info := &PackageInfo{
		Path:  pkg.PkgPath,
		Name:  pkg.Name,
		Types: pkg.Types,
	}

	if len(pkg.GoFiles) > 0 {
		info.Dir = filepath.Dir(pkg.GoFiles[0])
	}

	for _, file := range pkg.Syntax {
		imports := fileImports(file, pkg)

		for _, decl := range file.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Recv != nil || !isConstructorName(fn.Name.Name) {
				continue
			}

			obj, ok := pkg.TypesInfo.Defs[fn.Name].(*types.Func)
			if !ok {
				continue
			}

			id := TypeID{PkgPath: pkg.PkgPath, Name: fn.Name.Name}
			pos := pkg.Fset.Position(fn.Pos())

			ctor, reason := a.analyzeConstructor(id, obj, fn)
			if reason != "" {
				info.Rejected = append(info.Rejected, Rejection{ID: id, Reason: reason, Pos: pos})
				continue
			}

			if ctor.Directives.Skip {
				continue
			}

			ctor.Imports = imports
			ctor.Pos = pos
			info.Constructors = append(info.Constructors, ctor)
		}
	}

	sort.Slice(info.Constructors, func(i, j int) bool {
		return info.Constructors[i].ID.Name < info.Constructors[j].ID.Name
	})

	a.graph.Packages[pkg.PkgPath] = info
}

// analyzeConstructor describes fn, or returns why it cannot be described.
func (a *Analyzer) analyzeConstructor(id TypeID, obj *types.Func, fn *ast.FuncDecl) (*Constructor, string) {
	directives, err := ParseDirectives(fn.Doc)
	if err != nil {
		return nil, err.Error()
	}

	if directives.Skip {
		return &Constructor{ID: id, Directives: directives}, ""
	}

	sig, ok := obj.Type().(*types.Signature)
	if !ok {
		return nil, "not a function signature"
	}

	if sig.TypeParams().Len() > 0 {
		return nil, "generic constructors are not supported"
	}

	if sig.Variadic() {
		return nil, "variadic constructors are not supported"
	}

	results := sig.Results()

	switch {
	case results.Len() == 0 || results.Len() > 2:
		return nil, fmt.Sprintf("must return T or (T, error), returns %d values", results.Len())
	case results.Len() == 2 && !types.Identical(results.At(1).Type(), errorType):
		return nil, "second result must be error"
	case types.Identical(results.At(0).Type(), errorType):
		return nil, "first result must be the constructed type"
	}

	if named, ok := nearestNamed(results.At(0).Type()); !ok || named.Obj().Pkg() != obj.Pkg() {
		return nil, fmt.Sprintf("result type %s is not declared in package %s",
			types.TypeString(results.At(0).Type(), nil), obj.Pkg().Name())
	}

	ctor := &Constructor{
		ID:           id,
		Result:       results.At(0).Type(),
		ReturnsError: results.Len() == 2,
		Directives:   directives,
	}

	params := sig.Params()
	known := make(map[string]bool, params.Len())

	for i := range params.Len() {
		p := params.At(i)
		if p.Name() == "" || p.Name() == "_" {
			return nil, fmt.Sprintf("parameter %d has no name", i)
		}

		known[p.Name()] = true
		ctor.Params = append(ctor.Params, Param{Name: p.Name(), Type: p.Type()})
	}

	for name := range directives.Defaults {
		if !known[name] {
			return nil, fmt.Sprintf("ctor:default names unknown parameter %q", name)
		}
	}

	for name := range directives.Optional {
		if !known[name] {
			return nil, fmt.Sprintf("ctor:optional names unknown parameter %q", name)
		}
	}

	return ctor, ""
}

// isConstructorName accepts New and New followed by an upper-case letter,
// so Newline and NewsFeed are not constructors.
func isConstructorName(name string) bool {
	rest, ok := strings.CutPrefix(name, ConstructorPrefix)
	if !ok {
		return false
	}

	if rest == "" {
		return true
	}

	r, _ := utf8.DecodeRuneInString(rest)

	return unicode.IsUpper(r)
}

// fileImports maps the local names of a file's imports to the packages.
func fileImports(file *ast.File, pkg *packages.Package) map[string]ImportRef {
	imports := make(map[string]ImportRef, len(file.Imports))

	for _, spec := range file.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}

		ref := ImportRef{Path: path, Name: filepath.Base(path)}
		if imported := pkg.Imports[path]; imported != nil {
			ref.Name = imported.Name
		}

		local := ref.Name
		if spec.Name != nil {
			local = spec.Name.Name
		}

		if local == "_" || local == "." {
			continue
		}

		imports[local] = ref
	}

	return imports
}
