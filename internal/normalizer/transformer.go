package normalizer

import (
	"errors"

	"newsflat/internal/models"
)

// ErrInvalidTransformerDocument is returned when the items field cannot be read.
var ErrInvalidTransformerDocument = errors.New("invalid document: items field must be a list")

// Stats counts what a transformation kept and dropped.
type Stats struct {
	Items        int
	Records      int
	SkippedItems int
}

// Add accumulates other into s.
func (s *Stats) Add(other Stats) {
	s.Items += other.Items
	s.Records += other.Records
	s.SkippedItems += other.SkippedItems
}

// Transformer builds one flat record per item of a document.
type Transformer struct {
	flattener       *Flattener
	sanitizer       *Sanitizer
	exclusions      ExclusionSet
	itemsKey        string
	provenanceField string
}

// NewTransformer creates a transformer from its collaborators.
func NewTransformer(flattener *Flattener, sanitizer *Sanitizer, exclusions ExclusionSet, itemsKey, provenanceField string) *Transformer {
	return &Transformer{
		flattener:       flattener,
		sanitizer:       sanitizer,
		exclusions:      exclusions,
		itemsKey:        itemsKey,
		provenanceField: provenanceField,
	}
}

// Transform merges the flattened envelope into every flattened item, drops
// excluded fields, sanitizes strings and stamps the provenance field.
// Items that are not objects are skipped and counted.
func (t *Transformer) Transform(doc *models.Document) ([]models.FlatRecord, Stats, error) {
	var stats Stats

	if doc == nil {
		return nil, stats, ErrNilDocument
	}

	items, ok := doc.Root[t.itemsKey]
	if !ok || items.Kind != models.KindList {
		return nil, stats, ErrInvalidTransformerDocument
	}

	envelope := make(map[string]models.Value, len(doc.Root))

	for key, value := range doc.Root {
		if key == t.itemsKey || t.excluded(key) {
			continue
		}

		envelope[key] = value
	}

	envelopeFlat := t.dropExcluded(t.flattener.Flatten(envelope, ""))

	records := make([]models.FlatRecord, 0, len(items.List))

	for _, item := range items.List {
		stats.Items++

		if !item.IsObject() {
			stats.SkippedItems++

			continue
		}

		itemFlat := t.dropExcluded(t.flattener.Flatten(item.Object, ""))

		row := make(models.FlatRecord, len(envelopeFlat)+len(itemFlat)+1)
		for k, v := range envelopeFlat {
			row[k] = v
		}

		// Item fields win over envelope fields with the same key.
		for k, v := range itemFlat {
			row[k] = v
		}

		for k, v := range row {
			if v.Kind == models.KindString {
				row[k] = models.String(t.sanitizer.Sanitize(v.Text))
			}
		}

		row[t.provenanceField] = models.String(doc.Name)

		records = append(records, row)
	}

	stats.Records = len(records)

	return records, stats, nil
}

func (t *Transformer) excluded(key string) bool {
	return key != t.provenanceField && t.exclusions.Excludes(key, t.flattener.Separator())
}

func (t *Transformer) dropExcluded(record models.FlatRecord) models.FlatRecord {
	for key := range record {
		if t.excluded(key) {
			delete(record, key)
		}
	}

	return record
}
