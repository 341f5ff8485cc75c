package normalizer

import (
	"errors"
	"sort"
	"unicode/utf8"

	"newsflat/internal/models"
)

// DefaultSeparator joins nested keys.
const DefaultSeparator = "."

// ErrInvalidSeparator is returned when the key separator is not a single character.
var ErrInvalidSeparator = errors.New("separator must be exactly one character")

// Flattener turns nested objects into single-level records.
type Flattener struct {
	separator string
}

// NewFlattener creates a flattener joining keys with separator.
func NewFlattener(separator string) (*Flattener, error) {
	if utf8.RuneCountInString(separator) != 1 {
		return nil, ErrInvalidSeparator
	}

	return &Flattener{separator: separator}, nil
}

// Separator returns the key separator.
func (f *Flattener) Separator() string {
	return f.separator
}

// Flatten descends into object values only. Lists and scalars are stored
// under their joined path as they are; lists are never expanded.
//
// Keys are visited in sorted order. When two paths join to the same key, as
// {"a":{"b":1}} and {"a.b":2} do, the value reached through fewer objects
// wins; at equal depth the later key in sorted order wins.
func (f *Flattener) Flatten(fields map[string]models.Value, prefix string) models.FlatRecord {
	out := make(models.FlatRecord, len(fields))
	depths := make(map[string]int, len(fields))
	f.flattenInto(out, depths, fields, prefix, 0)

	return out
}

func (f *Flattener) flattenInto(out models.FlatRecord, depths map[string]int, fields map[string]models.Value, prefix string, depth int) {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		value := fields[key]

		path := key
		if prefix != "" {
			path = prefix + f.separator + key
		}

		switch value.Kind {
		case models.KindObject:
			f.flattenInto(out, depths, value.Object, path, depth+1)
		case models.KindNull, models.KindBool, models.KindNumber, models.KindString, models.KindList:
			if d, seen := depths[path]; seen && d < depth {
				continue
			}

			out[path] = value
			depths[path] = depth
		}
	}
}
