// Package pipeline drives a full run: resolve inputs, read every document,
// flatten all items into one batch, then unify the schema and write the table.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"newsflat/internal/formatter"
	"newsflat/internal/logger"
	"newsflat/internal/models"
	"newsflat/internal/normalizer"
	"newsflat/internal/report"
	"newsflat/internal/source"
	"newsflat/pkg/metadata"
)

// ErrFatalInput wraps every input failure that aborts a run before any
// output is written.
var ErrFatalInput = errors.New("fatal input error")

// Options configures a Pipeline.
type Options struct {
	Normalizer normalizer.Options
	CSV        formatter.CSVOptions
	// Manifest, when set, is the path of the YAML run manifest.
	Manifest string
	// MetricsFile, when set, receives Prometheus text-format run metrics.
	MetricsFile string
}

// DefaultOptions returns the options for news-API "everything" dumps.
func DefaultOptions() Options {
	return Options{
		Normalizer: normalizer.DefaultOptions(),
		CSV:        formatter.DefaultCSVOptions(),
	}
}

// Result is the outcome of a successful run.
type Result struct {
	Schema   models.Schema
	Records  []models.FlatRecord
	Report   *report.Report
	Manifest *metadata.Manifest
}

// Pipeline owns the stages of a run. It holds no per-run state, so one
// instance can run several times.
type Pipeline struct {
	reader    *source.Reader
	processor *normalizer.Processor
	writer    *formatter.CSVWriter
	opts      Options
	log       *logger.Logger
}

// New creates a pipeline. A nil logger discards output.
func New(opts Options, log *logger.Logger) (*Pipeline, error) {
	processor, err := normalizer.NewProcessor(opts.Normalizer)
	if err != nil {
		return nil, fmt.Errorf("failed to create processor: %w", err)
	}

	writer, err := formatter.NewCSVWriter(opts.CSV)
	if err != nil {
		return nil, fmt.Errorf("failed to create writer: %w", err)
	}

	if log == nil {
		log = logger.Discard()
	}

	return &Pipeline{
		reader:    source.NewReader(),
		processor: processor,
		writer:    writer,
		opts:      opts,
		log:       log,
	}, nil
}

// Run processes every input and writes one table to outputPath. A fatal
// input error, cancellation of ctx, or a failed manifest or metrics write
// returns before the table is moved into place.
func (p *Pipeline) Run(ctx context.Context, patterns []string, outputPath string) (*Result, error) {
	rep := report.New()
	log := p.log.With("run_id", rep.RunID)

	// 1. Resolve inputs
	paths, err := source.ResolveInputs(patterns)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFatalInput, err)
	}

	log.Info("Starting run", "inputs", len(paths), "output", outputPath)

	// 2. Read and flatten every document
	var batch models.Batch

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("run cancelled: %w", err)
		}

		file, records, err := p.processFile(log, path)
		if err != nil {
			return nil, err
		}

		rep.AddFile(file)
		batch.Append(records...)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("run cancelled: %w", err)
	}

	// 3. Unify once over the whole batch, then write once
	schema := p.processor.Unify(batch.Records())

	result := &Result{
		Schema:  schema,
		Records: batch.Records(),
		Report:  rep,
	}

	// 4. Side outputs are written against the staged table, so a failure
	// there leaves no table behind.
	var sideOutputs []string

	err = p.writer.WriteFileStaged(outputPath, schema, batch.Records(), func(staged string) error {
		rep.Finish(outputPath, len(schema), batch.Len())

		if p.opts.Manifest != "" {
			manifest, err := p.writeManifest(rep, schema, staged)
			if err != nil {
				return err
			}

			sideOutputs = append(sideOutputs, p.opts.Manifest)
			result.Manifest = manifest
		}

		if p.opts.MetricsFile != "" {
			if err := rep.WriteMetrics(p.opts.MetricsFile); err != nil {
				return err
			}

			sideOutputs = append(sideOutputs, p.opts.MetricsFile)
		}

		return nil
	})
	if err != nil {
		for _, path := range sideOutputs {
			_ = os.Remove(path)
		}

		return nil, fmt.Errorf("failed to write output: %w", err)
	}

	log.Info("Wrote table",
		"path", outputPath,
		"rows", batch.Len(),
		"columns", len(schema),
		"duration", rep.Duration.Round(time.Millisecond),
	)

	if result.Manifest != nil {
		log.Info("Wrote manifest", "path", p.opts.Manifest, "sha256", result.Manifest.Output.SHA256)
	}

	if p.opts.MetricsFile != "" {
		log.Debug("Wrote metrics", "path", p.opts.MetricsFile)
	}

	return result, nil
}

func (p *Pipeline) processFile(log *logger.Logger, path string) (report.FileReport, []models.FlatRecord, error) {
	doc, elapsed, err := p.reader.ReadDocumentWithMetrics(path)
	if err != nil {
		return report.FileReport{}, nil, fmt.Errorf("%w: %w", ErrFatalInput, err)
	}

	file := report.FileReport{
		Name:     doc.Name,
		Path:     doc.Path,
		SHA256:   doc.SHA256,
		Size:     doc.Size,
		ReadTime: elapsed,
	}

	records, stats, err := p.processor.Process(doc)
	if err != nil {
		if !normalizer.IsSkippable(err) {
			return report.FileReport{}, nil, fmt.Errorf("%s: %w", path, err)
		}

		file.Skipped = true
		file.Reason = skipReason(err)

		log.Warn("Skipping document", "file", doc.Name, "reason", err)

		return file, nil, nil
	}

	file.Items = stats.Items
	file.Rows = stats.Records
	file.SkippedItems = stats.SkippedItems

	if stats.SkippedItems > 0 {
		log.Debug("Dropped non-object items", "file", doc.Name, "count", stats.SkippedItems)
	}

	log.Info("Processed document", "file", doc.Name, "items", stats.Items, "rows", stats.Records, "read_time", elapsed)

	return file, records, nil
}

func (p *Pipeline) writeManifest(rep *report.Report, schema models.Schema, staged string) (*metadata.Manifest, error) {
	manifest := &metadata.Manifest{
		RunID:       rep.RunID,
		GeneratedAt: rep.StartedAt.UTC(),
		Output: metadata.OutputEntry{
			Path:    rep.Output,
			Rows:    rep.Rows,
			Columns: append([]string(nil), schema...),
		},
	}

	for _, f := range rep.Files {
		manifest.Inputs = append(manifest.Inputs, metadata.FileEntry{
			Name:   f.Name,
			Path:   f.Path,
			SHA256: f.SHA256,
			Size:   f.Size,
			Rows:   f.Rows,
		})
	}

	if err := metadata.SignFrom(manifest, staged); err != nil {
		return nil, fmt.Errorf("failed to hash output: %w", err)
	}

	if err := metadata.Write(p.opts.Manifest, manifest); err != nil {
		return nil, err
	}

	return manifest, nil
}

func skipReason(err error) string {
	switch {
	case errors.Is(err, normalizer.ErrMissingItems):
		return "missing items"
	case errors.Is(err, normalizer.ErrItemsNotList):
		return "items not a list"
	default:
		return err.Error()
	}
}
