package dataservice

import (
	"strings"
	"unicode"
)

// toSnake converts an exported Go type name to snake_case for use as a cache
// namespace and permission resource. Anything that is not a letter or digit
// becomes an underscore so reflected names (pointers, generics) cannot leak
// punctuation into key prefixes.
func toSnake(s string) string {
	var b strings.Builder
	b.Grow(len(s) + len(s)/2)

	runes := []rune(s)
	for i, r := range runes {
		switch {
		case unicode.IsUpper(r):
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (nextLower && prev != '_') {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsLower(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	out := b.String()
	for strings.Contains(out, "__") {
		out = strings.ReplaceAll(out, "__", "_")
	}
	return strings.Trim(out, "_")
}
