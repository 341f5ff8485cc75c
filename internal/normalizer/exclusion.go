package normalizer

import "strings"

// DefaultExclusions lists the fields dropped from every output row.
func DefaultExclusions() []string {
	return []string{"status", "totalResults", "urlToImage"}
}

// ExclusionSet is an immutable, case-insensitive set of field names.
type ExclusionSet struct {
	names map[string]struct{}
}

// NewExclusionSet builds a set from names.
func NewExclusionSet(names ...string) ExclusionSet {
	set := ExclusionSet{names: make(map[string]struct{}, len(names))}

	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}

		set.names[strings.ToLower(n)] = struct{}{}
	}

	return set
}

// Len returns the number of names in the set.
func (e ExclusionSet) Len() int {
	return len(e.names)
}

// Excludes reports whether a flattened key must be dropped: either the full
// key or its last separator-delimited segment names an excluded field.
func (e ExclusionSet) Excludes(key, separator string) bool {
	if len(e.names) == 0 {
		return false
	}

	lower := strings.ToLower(key)
	if _, ok := e.names[lower]; ok {
		return true
	}

	if separator == "" {
		return false
	}

	sep := strings.ToLower(separator)
	if i := strings.LastIndex(lower, sep); i >= 0 {
		_, ok := e.names[lower[i+len(sep):]]

		return ok
	}

	return false
}
