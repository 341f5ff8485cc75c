package normalizer

import (
	"errors"
	"fmt"

	"newsflat/internal/models"
)

// Validation errors. Documents failing with ErrMissingItems or ErrItemsNotList
// contribute no rows but do not stop a run.
var (
	ErrNilDocument  = errors.New("invalid document: nil")
	ErrMissingItems = errors.New("document has no items field")
	ErrItemsNotList = errors.New("items field is not a list")
)

// Validator checks that a document has the envelope/items shape.
type Validator struct {
	itemsKey string
}

// NewValidator creates a validator looking for items under itemsKey.
func NewValidator(itemsKey string) *Validator {
	return &Validator{itemsKey: itemsKey}
}

// Validate checks the document shape.
func (v *Validator) Validate(doc *models.Document) error {
	if doc == nil || doc.Root == nil {
		return ErrNilDocument
	}

	items, ok := doc.Root[v.itemsKey]
	if !ok {
		return fmt.Errorf("%w: %q", ErrMissingItems, v.itemsKey)
	}

	if items.Kind != models.KindList {
		return fmt.Errorf("%w: %q is %s", ErrItemsNotList, v.itemsKey, items.Kind)
	}

	return nil
}

// IsSkippable reports whether err only means the document has nothing to contribute.
func IsSkippable(err error) bool {
	return errors.Is(err, ErrMissingItems) || errors.Is(err, ErrItemsNotList)
}
