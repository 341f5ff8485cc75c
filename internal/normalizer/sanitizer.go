package normalizer

import (
	"regexp"
	"strings"

	"newsflat/pkg/utils"

	"golang.org/x/net/html"
)

// Replacement maps one known corrupted rendering to its canonical text.
type Replacement struct {
	Bad  string
	Good string
}

// DefaultReplacements returns the built-in mojibake table: UTF-8 punctuation
// that was decoded as Windows-1252 or Mac Roman and re-encoded.
func DefaultReplacements() []Replacement {
	return []Replacement{
		{Bad: "\u201a\u00c4\u00f4", Good: "\u2019"},
		{Bad: "\u00e2\u20ac\u2122", Good: "\u2019"},
		{Bad: "\u00e2\u20ac\u0153", Good: "\u201c"},
		{Bad: "\u00e2\u20ac\ufffd", Good: "\u201d"},
		{Bad: "\u00e2\u20ac\u201c", Good: "\u2013"},
		{Bad: "\u00e2\u20ac\u201d", Good: "\u2014"},
		{Bad: "\u00e2\u20ac\u02dc", Good: "\u2018"},
		{Bad: "\u00e2\u20ac\u00a6", Good: "\u2026"},
		{Bad: "\u201a\u00c4\u00b6", Good: "\u2026"},
	}
}

// Sanitizer cleans text values scraped from news APIs.
type Sanitizer struct {
	truncationPattern *regexp.Regexp
	tagPattern        *regexp.Regexp
	mojibake          *strings.Replacer
}

// NewSanitizer builds a sanitizer around the given replacement table.
func NewSanitizer(table []Replacement) *Sanitizer {
	pairs := make([]string, 0, 2*len(table))
	for _, r := range table {
		if r.Bad == "" {
			continue
		}

		pairs = append(pairs, r.Bad, r.Good)
	}

	return &Sanitizer{
		truncationPattern: regexp.MustCompile(`\[\+\d+\schars\]`),
		tagPattern:        regexp.MustCompile(`<[^>]+>`),
		mojibake:          strings.NewReplacer(pairs...),
	}
}

// Sanitize decodes entities, drops truncation markers and tags, repairs known
// mojibake and collapses whitespace. It never fails; text it cannot improve
// is returned as is.
func (s *Sanitizer) Sanitize(text string) string {
	// Entities first so that escaped markup is stripped as markup.
	text = html.UnescapeString(text)
	text = s.truncationPattern.ReplaceAllString(text, "")
	text = s.tagPattern.ReplaceAllString(text, " ")
	text = s.mojibake.Replace(text)

	return utils.NormalizeWhitespace(text)
}
