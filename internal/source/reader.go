// Package source loads news-API JSON documents from disk.
package source

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"newsflat/internal/models"

	"github.com/bytedance/sonic"
	"github.com/klauspost/compress/gzip"
)

// Input errors. All of them are fatal for a run.
var (
	ErrReadInput   = errors.New("failed to read input")
	ErrInvalidJSON = errors.New("invalid JSON")
	ErrNotObject   = errors.New("top-level JSON value is not an object")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Reader decodes input files into documents.
type Reader struct {
	api sonic.API
}

// NewReader creates a reader that keeps numbers in their source form and
// rejects strings that are not valid UTF-8.
func NewReader() *Reader {
	return &Reader{
		api: sonic.Config{UseNumber: true, ValidateString: true}.Froze(),
	}
}

// ReadDocument reads and decodes one file. Files ending in .gz are
// decompressed first.
func (r *Reader) ReadDocument(path string) (*models.Document, error) {
	doc, _, err := r.ReadDocumentWithMetrics(path)

	return doc, err
}

// ReadDocumentWithMetrics returns (document, duration, error).
func (r *Reader) ReadDocumentWithMetrics(path string) (*models.Document, time.Duration, error) {
	startTime := time.Now()

	raw, size, digest, err := readFile(path)
	if err != nil {
		return nil, time.Since(startTime), err
	}

	raw = bytes.TrimPrefix(raw, utf8BOM)

	if !utf8.Valid(raw) {
		return nil, time.Since(startTime), fmt.Errorf("%w: %s: not valid UTF-8", ErrInvalidJSON, path)
	}

	var decoded any
	if err := r.api.Unmarshal(raw, &decoded); err != nil {
		return nil, time.Since(startTime), fmt.Errorf("%w: %s: %v", ErrInvalidJSON, path, err)
	}

	top, ok := decoded.(map[string]any)
	if !ok {
		return nil, time.Since(startTime), fmt.Errorf("%w: %s", ErrNotObject, path)
	}

	root := make(map[string]models.Value, len(top))

	for key, item := range top {
		v, convErr := models.FromAny(item)
		if convErr != nil {
			return nil, time.Since(startTime), fmt.Errorf("%w: %s: %s: %v", ErrInvalidJSON, path, key, convErr)
		}

		root[key] = v
	}

	doc := &models.Document{
		Name:   filepath.Base(path),
		Path:   path,
		Root:   root,
		Size:   size,
		SHA256: digest,
	}

	return doc, time.Since(startTime), nil
}

// readFile returns the (decompressed) content, the on-disk size and the
// SHA-256 of the on-disk bytes.
func readFile(path string) ([]byte, int64, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, "", fmt.Errorf("%w: %s: %v", ErrReadInput, path, err)
	}
	defer f.Close()

	hasher := sha256.New()
	counter := &countingReader{r: io.TeeReader(f, hasher)}

	var content io.Reader = counter

	if strings.EqualFold(filepath.Ext(path), ".gz") {
		gz, gzErr := gzip.NewReader(counter)
		if gzErr != nil {
			return nil, 0, "", fmt.Errorf("%w: %s: %v", ErrReadInput, path, gzErr)
		}
		defer gz.Close()

		content = gz
	}

	data, err := io.ReadAll(content)
	if err != nil {
		return nil, 0, "", fmt.Errorf("%w: %s: %v", ErrReadInput, path, err)
	}

	// Drain whatever the decompressor did not consume so the digest covers the file.
	if _, err := io.Copy(io.Discard, counter); err != nil {
		return nil, 0, "", fmt.Errorf("%w: %s: %v", ErrReadInput, path, err)
	}

	return data, counter.n, hex.EncodeToString(hasher.Sum(nil)), nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)

	return n, err
}
