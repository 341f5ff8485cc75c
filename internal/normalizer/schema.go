package normalizer

import (
	"sort"

	"newsflat/internal/models"
)

// SchemaUnifier derives the column set shared by a batch of records.
type SchemaUnifier struct {
	exclusions      ExclusionSet
	separator       string
	provenanceField string
}

// NewSchemaUnifier creates a unifier.
func NewSchemaUnifier(exclusions ExclusionSet, separator, provenanceField string) *SchemaUnifier {
	return &SchemaUnifier{
		exclusions:      exclusions,
		separator:       separator,
		provenanceField: provenanceField,
	}
}

// Unify returns the sorted union of all record keys, minus excluded keys,
// always including the provenance field.
func (u *SchemaUnifier) Unify(records []models.FlatRecord) models.Schema {
	seen := map[string]struct{}{u.provenanceField: {}}

	for _, record := range records {
		for key := range record {
			if key != u.provenanceField && u.exclusions.Excludes(key, u.separator) {
				continue
			}

			seen[key] = struct{}{}
		}
	}

	schema := make(models.Schema, 0, len(seen))
	for key := range seen {
		schema = append(schema, key)
	}

	// Byte order of UTF-8 strings equals code point order.
	sort.Strings(schema)

	return schema
}
