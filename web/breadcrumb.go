package web

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Crumb is one segment of a navigation trail.
type Crumb struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// Breadcrumbs derives a navigation trail from a request path. Identifier
// segments keep the preceding segment's context rather than getting a label
// of their own.
func Breadcrumbs(path string) []Crumb {
	trail := []Crumb{{Label: "Home", Path: "/"}}

	var at strings.Builder
	for _, seg := range strings.Split(strings.Trim(path, "/"), "/") {
		if seg == "" {
			continue
		}
		at.WriteString("/")
		at.WriteString(seg)
		trail = append(trail, Crumb{Label: crumbLabel(seg), Path: at.String()})
	}
	return trail
}

func crumbLabel(seg string) string {
	if _, err := uuid.Parse(seg); err == nil {
		return "Detail"
	}
	words := strings.FieldsFunc(seg, func(r rune) bool { return r == '-' || r == '_' })
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
