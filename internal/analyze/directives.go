package analyze

import (
	"fmt"
	"go/ast"
	"strings"
)

const directivePrefix = "ctor:"

// Directives are the ctor: lines of a constructor doc comment:
//
//	ctor:default <param>=<Go expression>
//	ctor:optional <param>
//	ctor:skip
type Directives struct {
	Defaults map[string]string
	Optional map[string]bool
	Skip     bool
}

// ParseDirectives reads directives from a doc comment. It returns an error
// for malformed or unknown directives.
func ParseDirectives(doc *ast.CommentGroup) (Directives, error) {
	d := Directives{
		Defaults: make(map[string]string),
		Optional: make(map[string]bool),
	}

	if doc == nil {
		return d, nil
	}

	for _, c := range doc.List {
		line := strings.TrimSpace(strings.TrimPrefix(c.Text, "//"))
		if !strings.HasPrefix(line, directivePrefix) {
			continue
		}

		verb, arg, _ := strings.Cut(strings.TrimPrefix(line, directivePrefix), " ")
		arg = strings.TrimSpace(arg)

		switch verb {
		case "skip":
			d.Skip = true

		case "optional":
			if arg == "" {
				return d, fmt.Errorf("ctor:optional needs a parameter name")
			}

			for _, name := range strings.Fields(arg) {
				d.Optional[name] = true
			}

		case "default":
			name, expr, ok := strings.Cut(arg, "=")
			name, expr = strings.TrimSpace(name), strings.TrimSpace(expr)

			if !ok || name == "" || expr == "" {
				return d, fmt.Errorf("ctor:default must look like <param>=<expr>, got %q", arg)
			}

			d.Defaults[name] = expr

		default:
			return d, fmt.Errorf("unknown directive %q", directivePrefix+verb)
		}
	}

	return d, nil
}
