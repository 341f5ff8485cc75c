// Package config provides configuration management for the normalization pipeline.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"newsflat/internal/formatter"
	"newsflat/internal/normalizer"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. NEWSFLAT_OUTPUT.
const EnvPrefix = "NEWSFLAT"

// Configuration validation errors.
var (
	ErrNoInputs               = errors.New("pipeline.inputs requires at least one file or pattern")
	ErrMissingItemsKey        = errors.New("pipeline.items_key is required")
	ErrInvalidSeparator       = errors.New("pipeline.separator must be exactly one character")
	ErrMissingProvenanceField = errors.New("pipeline.provenance_field is required")
	ErrMissingOutputPath      = errors.New("output.path is required")
	ErrInvalidDelimiter       = errors.New("output.delimiter must be a single character other than quote or newline")
	ErrDelimiterIsSeparator   = errors.New("output.delimiter must differ from pipeline.separator")
	ErrInvalidPreviewRows     = errors.New("output.preview_rows must be non-negative")
	ErrInvalidPreviewWidth    = errors.New("output.preview_width must be non-negative")
	ErrInvalidLogLevel        = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat       = errors.New("logging.format must be 'text' or 'json'")
	ErrUnsupportedConfigType  = errors.New("config file must be .yaml, .yml or .toml")
)

// Config represents the complete pipeline configuration.
type Config struct {
	Pipeline PipelineConfig `yaml:"pipeline" toml:"pipeline"`
	Sanitize SanitizeConfig `yaml:"sanitize" toml:"sanitize"`
	Output   OutputConfig   `yaml:"output" toml:"output"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging"`
}

// PipelineConfig describes the inputs and how they are flattened.
type PipelineConfig struct {
	Inputs          []string `yaml:"inputs" toml:"inputs"`
	ItemsKey        string   `yaml:"items_key" toml:"items_key"`
	Separator       string   `yaml:"separator" toml:"separator"`
	ProvenanceField string   `yaml:"provenance_field" toml:"provenance_field"`
	Exclude         []string `yaml:"exclude" toml:"exclude"`
}

// SanitizeConfig extends the built-in mojibake table.
type SanitizeConfig struct {
	ExtraReplacements map[string]string `yaml:"extra_replacements" toml:"extra_replacements"`
}

// OutputConfig defines the table and the optional side outputs.
type OutputConfig struct {
	Path           string   `yaml:"path" toml:"path"`
	Delimiter      string   `yaml:"delimiter" toml:"delimiter"`
	CRLF           bool     `yaml:"crlf" toml:"crlf"`
	Manifest       string   `yaml:"manifest" toml:"manifest"`
	MetricsFile    string   `yaml:"metrics_file" toml:"metrics_file"`
	PreviewRows    int      `yaml:"preview_rows" toml:"preview_rows"`
	PreviewWidth   int      `yaml:"preview_width" toml:"preview_width"`
	PreviewColumns []string `yaml:"preview_columns" toml:"preview_columns"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// envOverrides lists the settings that can be overridden from the environment.
type envOverrides struct {
	Inputs      []string `envconfig:"INPUTS"`
	ItemsKey    string   `envconfig:"ITEMS_KEY"`
	Output      string   `envconfig:"OUTPUT"`
	Delimiter   string   `envconfig:"DELIMITER"`
	Separator   string   `envconfig:"SEPARATOR"`
	Manifest    string   `envconfig:"MANIFEST"`
	MetricsFile string   `envconfig:"METRICS_FILE"`
	LogLevel    string   `envconfig:"LOG_LEVEL"`
	LogFormat   string   `envconfig:"LOG_FORMAT"`
}

// Default returns the configuration matching news-API "everything" dumps.
func Default() *Config {
	opts := normalizer.DefaultOptions()

	return &Config{
		Pipeline: PipelineConfig{
			ItemsKey:        opts.ItemsKey,
			Separator:       opts.Separator,
			ProvenanceField: opts.ProvenanceField,
			Exclude:         opts.Exclusions,
		},
		Output: OutputConfig{
			Path:           "all_articles.csv",
			Delimiter:      ",",
			CRLF:           true,
			PreviewWidth:   40,
			PreviewColumns: []string{opts.ProvenanceField, "title"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig loads a YAML or TOML file on top of the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedConfigType, path)
	}

	return cfg, nil
}

// SaveConfig saves configuration to a YAML file.
func (c *Config) SaveConfig(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overlays NEWSFLAT_* environment variables that are set.
func (c *Config) ApplyEnv() error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}

	if len(env.Inputs) > 0 {
		c.Pipeline.Inputs = env.Inputs
	}

	if env.ItemsKey != "" {
		c.Pipeline.ItemsKey = env.ItemsKey
	}

	if env.Output != "" {
		c.Output.Path = env.Output
	}

	if env.Delimiter != "" {
		c.Output.Delimiter = env.Delimiter
	}

	if env.Separator != "" {
		c.Pipeline.Separator = env.Separator
	}

	if env.Manifest != "" {
		c.Output.Manifest = env.Manifest
	}

	if env.MetricsFile != "" {
		c.Output.MetricsFile = env.MetricsFile
	}

	if env.LogLevel != "" {
		c.Logging.Level = env.LogLevel
	}

	if env.LogFormat != "" {
		c.Logging.Format = env.LogFormat
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if len(c.Pipeline.Inputs) == 0 {
		return ErrNoInputs
	}

	if strings.TrimSpace(c.Pipeline.ItemsKey) == "" {
		return ErrMissingItemsKey
	}

	if utf8.RuneCountInString(c.Pipeline.Separator) != 1 {
		return ErrInvalidSeparator
	}

	if strings.TrimSpace(c.Pipeline.ProvenanceField) == "" {
		return ErrMissingProvenanceField
	}

	if strings.TrimSpace(c.Output.Path) == "" {
		return ErrMissingOutputPath
	}

	delimiter, err := c.DelimiterRune()
	if err != nil {
		return err
	}

	if string(delimiter) == c.Pipeline.Separator {
		return ErrDelimiterIsSeparator
	}

	if c.Output.PreviewRows < 0 {
		return ErrInvalidPreviewRows
	}

	if c.Output.PreviewWidth < 0 {
		return ErrInvalidPreviewWidth
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return ErrInvalidLogLevel
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		return ErrInvalidLogFormat
	}

	return nil
}

// DelimiterRune returns the output delimiter. "tab" and `\t` name a tab.
func (c *Config) DelimiterRune() (rune, error) {
	switch c.Output.Delimiter {
	case "tab", `\t`:
		return '\t', nil
	}

	if utf8.RuneCountInString(c.Output.Delimiter) != 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDelimiter, c.Output.Delimiter)
	}

	r, _ := utf8.DecodeRuneInString(c.Output.Delimiter)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDelimiter, c.Output.Delimiter)
	}

	return r, nil
}

// NormalizerOptions converts the pipeline settings for the normalizer.
// Extra replacements are applied after the built-in table, in key order.
func (c *Config) NormalizerOptions() normalizer.Options {
	table := normalizer.DefaultReplacements()

	keys := make([]string, 0, len(c.Sanitize.ExtraReplacements))
	for bad := range c.Sanitize.ExtraReplacements {
		keys = append(keys, bad)
	}

	sort.Strings(keys)

	for _, bad := range keys {
		table = append(table, normalizer.Replacement{Bad: bad, Good: c.Sanitize.ExtraReplacements[bad]})
	}

	return normalizer.Options{
		ItemsKey:        c.Pipeline.ItemsKey,
		Separator:       c.Pipeline.Separator,
		ProvenanceField: c.Pipeline.ProvenanceField,
		Exclusions:      append([]string(nil), c.Pipeline.Exclude...),
		Replacements:    table,
	}
}

// CSVOptions converts the output settings for the table writer. The table
// always starts with a UTF-8 BOM.
func (c *Config) CSVOptions() (formatter.CSVOptions, error) {
	delimiter, err := c.DelimiterRune()
	if err != nil {
		return formatter.CSVOptions{}, err
	}

	return formatter.CSVOptions{
		Delimiter: delimiter,
		BOM:       true,
		CRLF:      c.Output.CRLF,
	}, nil
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Inputs: %d, ItemsKey: %s, Output: %s}",
		len(c.Pipeline.Inputs),
		c.Pipeline.ItemsKey,
		c.Output.Path,
	)
}
