// Package naming derives canonical option keys from Go identifiers.
package naming

import (
	"strings"
	"unicode"
)

// SnakeCase converts a camel-case identifier into lower snake case.
//
// A separator is inserted before every maximal run of uppercase letters, where
// the run stops before an uppercase letter that begins a lowercase word. This
// keeps acronyms together:
//   - "maxRetries"      -> "max_retries"
//   - "HTTPServer"      -> "http_server"
//   - "getHTTPResponse" -> "get_http_response"
//   - "OrderID"         -> "order_id"
//
// Leading separators are stripped. Input that is already snake case is
// returned unchanged, so SnakeCase(SnakeCase(s)) == SnakeCase(s).
func SnakeCase(s string) string {
	if s == "" {
		return ""
	}

	runes := []rune(s)

	var b strings.Builder

	b.Grow(len(s) + 4)

	for i := 0; i < len(runes); {
		r := runes[i]
		if !unicode.IsUpper(r) {
			b.WriteRune(r)
			i++

			continue
		}

		// Start of an uppercase run.
		b.WriteByte('_')
		b.WriteRune(unicode.ToLower(r))
		i++

		for i < len(runes) && unicode.IsUpper(runes[i]) && !startsWord(runes, i) {
			b.WriteRune(unicode.ToLower(runes[i]))
			i++
		}
	}

	return strings.TrimLeft(strings.ToLower(b.String()), "_")
}

// startsWord reports whether the uppercase rune at i is followed by a
// lowercase rune, i.e. it opens a new capitalized word ("XMLParser" at 'P').
func startsWord(runes []rune, i int) bool {
	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
