package utils

import (
	"strings"
)

// TrimOrEmpty normalizes user input without turning nil into "nil".
func TrimOrEmpty(s string) string {
	return strings.TrimSpace(s)
}

// NormalizeSpace collapses repeated whitespace into a single space.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// SplitEmailList splits comma/semicolon separated email input into cleaned,
// lowercased slices. Membership checks compare lowercased emails.
func SplitEmailList(raw string) []string {
	out := []string{}
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n'
	})
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, strings.ToLower(p))
	}
	return out
}
