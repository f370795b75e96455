package gen

import (
	"fmt"
	"go/types"
	"sort"
	"strings"

	"ctor-factory/internal/common"
)

// importSpec represents an import statement.
type importSpec struct {
	Alias string
	Path  string
}

// importSet assigns unique local names to the imports of one generated file.
type importSet struct {
	self   string // path of the package being generated into
	byPath map[string]string
	byName map[string]string
	specs  []importSpec
}

func newImportSet(self string) *importSet {
	return &importSet{
		self:   self,
		byPath: make(map[string]string),
		byName: make(map[string]string),
	}
}

// add imports path and returns the name to qualify it with. The package's
// own path needs no qualifier.
func (s *importSet) add(path, name string) string {
	if path == s.self {
		return ""
	}

	if local, ok := s.byPath[path]; ok {
		return local
	}

	if name == "" {
		name = common.PkgAlias(path)
	}

	local := name
	for i := 2; ; i++ {
		if _, taken := s.byName[local]; !taken {
			break
		}

		local = fmt.Sprintf("%s%d", name, i)
	}

	s.byPath[path] = local
	s.byName[local] = path

	spec := importSpec{Path: path}
	if local != name {
		spec.Alias = local
	}

	s.specs = append(s.specs, spec)

	return local
}

// qualifier is a types.Qualifier that records the packages it qualifies.
func (s *importSet) qualifier(pkg *types.Package) string {
	return s.add(pkg.Path(), pkg.Name())
}

// sorted returns the imports ordered by path.
func (s *importSet) sorted() []importSpec {
	out := make([]importSpec, len(s.specs))
	copy(out, s.specs)

	sort.Slice(out, func(i, j int) bool {
		return out[i].Path < out[j].Path
	})

	return out
}

// groups returns the standard library imports and the remaining imports as
// separate sorted groups, leaving out empty ones.
func (s *importSet) groups() [][]importSpec {
	var std, other []importSpec

	for _, spec := range s.sorted() {
		if s.isStd(spec.Path) {
			std = append(std, spec)
		} else {
			other = append(other, spec)
		}
	}

	var groups [][]importSpec

	for _, g := range [][]importSpec{std, other} {
		if len(g) > 0 {
			groups = append(groups, g)
		}
	}

	return groups
}

// isStd reports whether path looks like a standard library package: its
// first element has no dot and is not the root of this module or of the
// package being generated into.
func (s *importSet) isStd(path string) bool {
	first := firstElem(path)

	return !strings.Contains(first, ".") && first != firstElem(s.self) && first != firstElem(RegistryPath)
}

func firstElem(path string) string {
	first, _, _ := strings.Cut(path, "/")
	return first
}
