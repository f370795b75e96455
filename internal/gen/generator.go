package gen

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"go/types"
	"sort"
	"strings"
	"text/template"

	"ctor-factory/internal/analyze"
	"ctor-factory/internal/diagnostic"
)

// Import paths of the packages generated code registers with.
const (
	RegistryPath  = "ctor-factory/registry"
	SignaturePath = "ctor-factory/signature"
)

// Diagnostic codes reported by the generator.
const (
	CodeRejected   = "CTOR001"
	CodeBadDefault = "CTOR002"
	CodeDuplicate  = "CTOR003"
	CodeNoTargets  = "CTOR004"
)

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// OutputDir overrides the directory generated files are written to.
	// Empty means next to the package sources.
	OutputDir string
	// FileSuffix is appended to the package name to form the file name.
	FileSuffix string
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		FileSuffix: "_ctor_gen.go",
	}
}

// Generator generates descriptor files from analyzed packages.
type Generator struct {
	config GeneratorConfig
}

// NewGenerator creates a new Generator with the given configuration.
func NewGenerator(config GeneratorConfig) *Generator {
	if config.FileSuffix == "" {
		config.FileSuffix = DefaultGeneratorConfig().FileSuffix
	}

	return &Generator{config: config}
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Filename is the name of the file (e.g., "mailer_ctor_gen.go").
	Filename string
	// Dir is the package directory the file belongs to.
	Dir string
	// Content is the formatted Go source code.
	Content []byte
}

// Generate generates one file per package that declares constructors.
// Constructors that cannot be registered are reported as diagnostics and
// left out. The error is only set when a file cannot be rendered.
func (g *Generator) Generate(graph *analyze.Graph) ([]GeneratedFile, diagnostic.Diagnostics, error) {
	var (
		files []GeneratedFile
		diags diagnostic.Diagnostics
	)

	paths := make([]string, 0, len(graph.Packages))
	for path := range graph.Packages {
		paths = append(paths, path)
	}

	sort.Strings(paths)

	for _, path := range paths {
		pkg := graph.Packages[path]

		for _, r := range pkg.Rejected {
			diags.AddWarning(CodeRejected, r.Reason, r.ID.String(), r.Pos.String())
		}

		data := g.buildTemplateData(pkg, &diags)
		if len(data.Constructors) == 0 {
			diags.AddInfo(CodeNoTargets, "no constructors to register", pkg.Path, "")
			continue
		}

		file, err := g.render(pkg, data)
		if err != nil {
			return nil, diags, fmt.Errorf("generating %s: %w", pkg.Path, err)
		}

		files = append(files, *file)
	}

	return files, diags, nil
}

// templateData holds all data needed for the descriptor template.
type templateData struct {
	PackageName  string
	Filename     string
	ImportGroups [][]importSpec
	Registry     string
	Signature    string
	Constructors []constructorData
}

type constructorData struct {
	Func   string
	Target string
	Params []paramData
}

type paramData struct {
	Name     string
	Default  string
	Optional bool
}

func (g *Generator) buildTemplateData(pkg *analyze.PackageInfo, diags *diagnostic.Diagnostics) *templateData {
	imports := newImportSet(pkg.Path)

	data := &templateData{
		PackageName: pkg.Name,
		Filename:    pkg.Name + g.config.FileSuffix,
		Registry:    imports.add(RegistryPath, "registry"),
		Signature:   imports.add(SignaturePath, "signature"),
	}

	seen := make(map[string]string)

	for _, ctor := range pkg.Constructors {
		target := ctor.TargetName()
		if prev, ok := seen[target]; ok {
			diags.AddError(CodeDuplicate,
				fmt.Sprintf("%s already registers %s", prev, target), ctor.ID.String(), ctor.Pos.String())

			continue
		}

		cd, err := g.constructorData(ctor, imports)
		if err != nil {
			diags.AddError(CodeBadDefault, err.Error(), ctor.ID.String(), ctor.Pos.String())
			continue
		}

		seen[target] = ctor.ID.Name
		cd.Target = target
		data.Constructors = append(data.Constructors, cd)
	}

	data.ImportGroups = imports.groups()

	return data
}

func (g *Generator) constructorData(ctor *analyze.Constructor, imports *importSet) (constructorData, error) {
	cd := constructorData{Func: ctor.ID.Name}

	for _, p := range ctor.Params {
		pd := paramData{Name: p.Name, Optional: ctor.Optional(p.Name)}

		if expr, ok := ctor.Default(p.Name); ok {
			value, err := qualifyExpr(expr, ctor.Imports, imports)
			if err != nil {
				return cd, fmt.Errorf("default of %s: %w", p.Name, err)
			}

			pd.Default = conversion(types.TypeString(p.Type, imports.qualifier), value)
		}

		cd.Params = append(cd.Params, pd)
	}

	return cd, nil
}

// qualifyExpr parses a default expression and rewrites package selectors to
// the local names of the generated file.
func qualifyExpr(expr string, fileImports map[string]analyze.ImportRef, imports *importSet) (string, error) {
	node, err := parser.ParseExpr(expr)
	if err != nil {
		return "", fmt.Errorf("invalid expression %q: %w", expr, err)
	}

	ast.Inspect(node, func(n ast.Node) bool {
		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return true
		}

		ident, ok := sel.X.(*ast.Ident)
		if !ok {
			return true
		}

		if ref, imported := fileImports[ident.Name]; imported {
			ident.Name = imports.add(ref.Path, ref.Name)
		}

		return true
	})

	var buf bytes.Buffer
	if err := format.Node(&buf, token.NewFileSet(), node); err != nil {
		return "", fmt.Errorf("printing expression %q: %w", expr, err)
	}

	return buf.String(), nil
}

// conversion converts value to the parameter type so the default is
// checked by the compiler.
func conversion(typ, value string) string {
	for _, prefix := range []string{"*", "func", "chan", "<-"} {
		if strings.HasPrefix(typ, prefix) {
			return "(" + typ + ")(" + value + ")"
		}
	}

	return typ + "(" + value + ")"
}

func (g *Generator) render(pkg *analyze.PackageInfo, data *templateData) (*GeneratedFile, error) {
	dir := pkg.Dir
	if g.config.OutputDir != "" {
		dir = g.config.OutputDir
	}

	var buf bytes.Buffer
	if err := descriptorTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		_ = writeDebugUnformatted(dir, data.Filename, buf.Bytes())

		return &GeneratedFile{
			Filename: data.Filename,
			Dir:      dir,
			Content:  buf.Bytes(),
		}, fmt.Errorf("formatting code: %w", err)
	}

	return &GeneratedFile{
		Filename: data.Filename,
		Dir:      dir,
		Content:  formatted,
	}, nil
}

// Template for the descriptor file

var descriptorTemplate = template.Must(template.New("descriptor").Parse(`// Code generated by ctor-generator. DO NOT EDIT.

package {{.PackageName}}

import (
{{range $i, $group := .ImportGroups}}{{if $i}}
{{end}}{{range $group}}	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{end}}{{end}})

func init() {
{{- range .Constructors}}
	// {{.Target}}
{{- if .Params}}
	{{$.Registry}}.MustRegister({{$.Signature}}.Func({{.Func}},
{{- range .Params}}
		{{$.Signature}}.Param({{printf "%q" .Name}}{{if .Default}}, {{$.Signature}}.Default({{.Default}}){{end}}{{if .Optional}}, {{$.Signature}}.Optional(){{end}}),
{{- end}}
	))
{{- else}}
	{{$.Registry}}.MustRegister({{$.Signature}}.Func({{.Func}}))
{{- end}}
{{- end}}
}
`))
