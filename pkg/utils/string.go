// Package utils provides common string helpers.
package utils

import "strings"

// NormalizeWhitespace collapses every run of Unicode whitespace, newlines and
// tabs included, into a single space and trims both ends.
func NormalizeWhitespace(str string) string {
	return strings.Join(strings.Fields(str), " ")
}

// SplitList splits a comma or semicolon separated list, trimming entries and
// dropping empty ones.
func SplitList(str string) []string {
	parts := strings.FieldsFunc(str, func(r rune) bool {
		return r == ',' || r == ';'
	})

	out := make([]string, 0, len(parts))

	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}

	return out
}
