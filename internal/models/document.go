package models

// Document is one parsed input file.
type Document struct {
	// Name is the bare file name; it becomes the provenance value.
	Name string
	// Path is the path the document was read from.
	Path string
	// Root is the top-level object of the file.
	Root map[string]Value
	// Size is the number of bytes read from disk.
	Size int64
	// SHA256 is the hex digest of the raw file bytes.
	SHA256 string
}

// FlatRecord maps path-joined keys to non-object values.
type FlatRecord map[string]Value

// Batch is an append-only, ordered buffer of records for a whole run.
type Batch struct {
	records []FlatRecord
}

// Append adds records to the end of the batch.
func (b *Batch) Append(records ...FlatRecord) {
	b.records = append(b.records, records...)
}

// Records returns the buffered records in insertion order.
func (b *Batch) Records() []FlatRecord {
	return b.records
}

// Len returns the number of buffered records.
func (b *Batch) Len() int {
	return len(b.records)
}

// Schema is the ordered list of output columns.
type Schema []string

// Contains reports whether column is part of the schema.
func (s Schema) Contains(column string) bool {
	for _, c := range s {
		if c == column {
			return true
		}
	}

	return false
}
