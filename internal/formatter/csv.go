// Package formatter renders unified records as delimited files and markdown tables.
package formatter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"newsflat/internal/models"

	"github.com/bytedance/sonic"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Writer errors.
var (
	ErrInvalidDelimiter = errors.New("invalid delimiter")
	ErrEmptySchema      = errors.New("schema has no columns")
)

// listAPI encodes opaque list values; map keys are sorted for reproducible output.
var listAPI = sonic.Config{SortMapKeys: true}.Froze()

// CSVOptions controls the delimited output.
type CSVOptions struct {
	Delimiter rune
	// BOM prefixes the file with a UTF-8 byte order mark so spreadsheet
	// tools detect the encoding.
	BOM  bool
	CRLF bool
}

// DefaultCSVOptions returns comma-separated, BOM-prefixed, CRLF output.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{Delimiter: ',', BOM: true, CRLF: true}
}

// CSVWriter writes records aligned to a schema.
type CSVWriter struct {
	opts CSVOptions
}

// NewCSVWriter validates opts and creates a writer.
func NewCSVWriter(opts CSVOptions) (*CSVWriter, error) {
	d := opts.Delimiter
	if d == 0 || d == '"' || d == '\r' || d == '\n' || d == utf8.RuneError || !utf8.ValidRune(d) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDelimiter, d)
	}

	return &CSVWriter{opts: opts}, nil
}

// Write emits the header and one row per record. Columns missing from a
// record are written as empty fields, so every row has len(schema) fields.
func (w *CSVWriter) Write(dst io.Writer, schema models.Schema, records []models.FlatRecord) error {
	if len(schema) == 0 {
		return ErrEmptySchema
	}

	out := dst

	var bomWriter *transform.Writer
	if w.opts.BOM {
		bomWriter = transform.NewWriter(dst, unicode.UTF8BOM.NewEncoder())
		out = bomWriter
	}

	cw := csv.NewWriter(out)
	cw.Comma = w.opts.Delimiter
	cw.UseCRLF = w.opts.CRLF

	if err := cw.Write(schema); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	row := make([]string, len(schema))

	for i, record := range records {
		for j, column := range schema {
			value, ok := record[column]
			if !ok {
				row[j] = ""

				continue
			}

			text, err := FormatValue(value)
			if err != nil {
				return fmt.Errorf("row %d column %q: %w", i, column, err)
			}

			row[j] = text
		}

		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush rows: %w", err)
	}

	if bomWriter != nil {
		if err := bomWriter.Close(); err != nil {
			return fmt.Errorf("failed to flush encoder: %w", err)
		}
	}

	return nil
}

// WriteFile writes the table to path through a temporary file in the same
// directory, renamed into place only after every row was written.
func (w *CSVWriter) WriteFile(path string, schema models.Schema, records []models.FlatRecord) error {
	return w.WriteFileStaged(path, schema, records, nil)
}

// WriteFileStaged is WriteFile with a hook that runs on the complete
// temporary file before it is renamed to path. A hook error discards the
// temporary file, so path is left untouched.
func (w *CSVWriter) WriteFileStaged(path string, schema models.Schema, records []models.FlatRecord, beforeCommit func(staged string) error) (err error) {
	dir := filepath.Dir(path)

	if mkdirErr := os.MkdirAll(dir, 0755); mkdirErr != nil {
		return fmt.Errorf("failed to create output directory: %w", mkdirErr)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = w.Write(tmp, schema, records); err != nil {
		return err
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err = os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if beforeCommit != nil {
		if err = beforeCommit(tmp.Name()); err != nil {
			return err
		}
	}

	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move output into place: %w", err)
	}

	return nil
}

// FormatValue renders a value as a table cell: strings as is, numbers in
// their source form, booleans as true/false, null as empty and lists as
// compact JSON.
func FormatValue(v models.Value) (string, error) {
	switch v.Kind {
	case models.KindNull:
		return "", nil
	case models.KindString, models.KindNumber:
		return v.Text, nil
	case models.KindBool:
		if v.Bool {
			return "true", nil
		}

		return "false", nil
	case models.KindList, models.KindObject:
		encoded, err := listAPI.MarshalToString(v.Any())
		if err != nil {
			return "", fmt.Errorf("failed to encode %s value: %w", v.Kind, err)
		}

		return encoded, nil
	default:
		return "", fmt.Errorf("unknown value kind %s", v.Kind)
	}
}
