// Package metadata writes and verifies run manifests: YAML files that pin the
// SHA-256 of every input and of the produced table.
package metadata

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Manifest verification errors.
var (
	ErrNoHashFound  = errors.New("no hash found in manifest")
	ErrHashMismatch = errors.New("hash mismatch")
	ErrNoOutput     = errors.New("manifest has no output entry")
)

// FileEntry pins one input file.
type FileEntry struct {
	Name   string `yaml:"name"`
	Path   string `yaml:"path"`
	SHA256 string `yaml:"sha256"`
	Size   int64  `yaml:"size"`
	Rows   int    `yaml:"rows"`
}

// OutputEntry pins the produced table.
type OutputEntry struct {
	Path    string   `yaml:"path"`
	SHA256  string   `yaml:"sha256"`
	Size    int64    `yaml:"size"`
	Rows    int      `yaml:"rows"`
	Columns []string `yaml:"columns"`
}

// Manifest describes one pipeline run.
type Manifest struct {
	RunID       string      `yaml:"run_id"`
	GeneratedAt time.Time   `yaml:"generated_at"`
	Inputs      []FileEntry `yaml:"inputs"`
	Output      OutputEntry `yaml:"output"`
}

// CalculateHash computes the hex SHA-256 of everything r yields.
func CalculateHash(r io.Reader) (string, int64, error) {
	h := sha256.New()

	n, err := io.Copy(h, r)
	if err != nil {
		return "", n, err
	}

	return hex.EncodeToString(h.Sum(nil)), n, nil
}

// HashFile computes the hex SHA-256 and size of a file on disk.
func HashFile(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	sum, n, err := CalculateHash(f)
	if err != nil {
		return "", 0, fmt.Errorf("failed to hash %s: %w", path, err)
	}

	return sum, n, nil
}

// Sign hashes the output file named in m and fills in its digest and size.
func Sign(m *Manifest) error {
	return SignFrom(m, m.Output.Path)
}

// SignFrom fills in the output digest and size from content, a file holding
// the same bytes as the output, such as a table not yet moved into place.
func SignFrom(m *Manifest, content string) error {
	if m.Output.Path == "" || content == "" {
		return ErrNoOutput
	}

	sum, size, err := HashFile(content)
	if err != nil {
		return err
	}

	m.Output.SHA256 = sum
	m.Output.Size = size

	if m.GeneratedAt.IsZero() {
		m.GeneratedAt = time.Now().UTC()
	}

	return nil
}

// Write serializes the manifest to path as YAML.
func Write(path string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	return nil
}

// Load reads a manifest written by Write.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	return &m, nil
}

// Verify checks that the output table still matches its recorded hash.
func Verify(m *Manifest) (bool, error) {
	if m.Output.Path == "" {
		return false, ErrNoOutput
	}

	if err := verifyFile(m.Output.Path, m.Output.SHA256); err != nil {
		return false, err
	}

	return true, nil
}

// VerifyInputs checks every recorded input and returns one error per file
// that is missing or changed.
func VerifyInputs(m *Manifest) []error {
	var errs []error

	for _, in := range m.Inputs {
		if err := verifyFile(in.Path, in.SHA256); err != nil {
			errs = append(errs, err)
		}
	}

	return errs
}

func verifyFile(path, expected string) error {
	if expected == "" {
		return fmt.Errorf("%w: %s", ErrNoHashFound, path)
	}

	calculated, _, err := HashFile(path)
	if err != nil {
		return err
	}

	if calculated != expected {
		return fmt.Errorf("%w: %s: expected %s, got %s", ErrHashMismatch, path, expected, calculated)
	}

	return nil
}
