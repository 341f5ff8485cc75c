// Package normalizer flattens news-API documents into uniform, sanitized records.
package normalizer

import (
	"errors"
	"fmt"
	"strings"

	"newsflat/internal/models"
)

// Option errors.
var (
	ErrMissingItemsKey        = errors.New("items key is required")
	ErrMissingProvenanceField = errors.New("provenance field is required")
)

// Options configures a Processor. Values are copied at construction and never
// mutated afterwards.
type Options struct {
	ItemsKey        string
	Separator       string
	ProvenanceField string
	Exclusions      []string
	Replacements    []Replacement
}

// DefaultOptions returns the options used for news-API "everything" responses.
func DefaultOptions() Options {
	return Options{
		ItemsKey:        "articles",
		Separator:       DefaultSeparator,
		ProvenanceField: "from_json",
		Exclusions:      DefaultExclusions(),
		Replacements:    DefaultReplacements(),
	}
}

// Processor validates documents and turns them into flat records.
type Processor struct {
	validator   *Validator
	transformer *Transformer
	unifier     *SchemaUnifier
}

// NewProcessor creates a new processor instance.
func NewProcessor(opts Options) (*Processor, error) {
	if strings.TrimSpace(opts.ItemsKey) == "" {
		return nil, ErrMissingItemsKey
	}

	if strings.TrimSpace(opts.ProvenanceField) == "" {
		return nil, ErrMissingProvenanceField
	}

	flattener, err := NewFlattener(opts.Separator)
	if err != nil {
		return nil, err
	}

	exclusions := NewExclusionSet(opts.Exclusions...)
	sanitizer := NewSanitizer(opts.Replacements)

	return &Processor{
		validator:   NewValidator(opts.ItemsKey),
		transformer: NewTransformer(flattener, sanitizer, exclusions, opts.ItemsKey, opts.ProvenanceField),
		unifier:     NewSchemaUnifier(exclusions, opts.Separator, opts.ProvenanceField),
	}, nil
}

// Process transforms one document into records. A skippable validation
// error comes back wrapped together with empty records; check it with
// IsSkippable.
func (p *Processor) Process(doc *models.Document) ([]models.FlatRecord, Stats, error) {
	// 1. Validate the input data
	if err := p.validator.Validate(doc); err != nil {
		return nil, Stats{}, fmt.Errorf("validation failed: %w", err)
	}

	// 2. Transform the data
	records, stats, err := p.transformer.Transform(doc)
	if err != nil {
		return nil, stats, fmt.Errorf("transformation failed: %w", err)
	}

	return records, stats, nil
}

// Unify computes the schema of a complete batch.
func (p *Processor) Unify(records []models.FlatRecord) models.Schema {
	return p.unifier.Unify(records)
}
