// Package report records what a pipeline run read, skipped and wrote.
package report

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"newsflat/internal/formatter"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

// ErrEmptyMetricsPath is returned when metrics are requested without a target file.
var ErrEmptyMetricsPath = errors.New("metrics file path is required")

const metricsNamespace = "newsflat"

// FileReport describes one input file.
type FileReport struct {
	Name         string
	Path         string
	SHA256       string
	Size         int64
	Items        int
	Rows         int
	SkippedItems int
	Skipped      bool
	Reason       string
	ReadTime     time.Duration
}

// Report summarizes a pipeline run.
type Report struct {
	RunID     string
	StartedAt time.Time
	Duration  time.Duration
	Files     []FileReport
	Output    string
	Columns   int
	Rows      int
}

// New starts a report with a fresh run identifier.
func New() *Report {
	return &Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}
}

// AddFile appends the outcome of one input file.
func (r *Report) AddFile(f FileReport) {
	r.Files = append(r.Files, f)
}

// Finish stamps the output shape and the elapsed time.
func (r *Report) Finish(output string, columns, rows int) {
	r.Output = output
	r.Columns = columns
	r.Rows = rows
	r.Duration = time.Since(r.StartedAt)
}

// SkippedDocuments returns the number of files that contributed no rows
// because they lacked a usable item list.
func (r *Report) SkippedDocuments() int {
	n := 0

	for _, f := range r.Files {
		if f.Skipped {
			n++
		}
	}

	return n
}

// Items returns the number of items seen across all files.
func (r *Report) Items() int {
	n := 0
	for _, f := range r.Files {
		n += f.Items
	}

	return n
}

// SkippedItems returns the number of non-object items dropped.
func (r *Report) SkippedItems() int {
	n := 0
	for _, f := range r.Files {
		n += f.SkippedItems
	}

	return n
}

// Summary renders the per-file outcome as a markdown table.
func (r *Report) Summary() string {
	rows := make([][]string, 0, len(r.Files)+1)

	for _, f := range r.Files {
		status := "ok"
		if f.Skipped {
			status = "skipped: " + f.Reason
		}

		rows = append(rows, []string{
			f.Name,
			strconv.Itoa(f.Items),
			strconv.Itoa(f.Rows),
			strconv.Itoa(f.SkippedItems),
			status,
		})
	}

	rows = append(rows, []string{
		"total",
		strconv.Itoa(r.Items()),
		strconv.Itoa(r.Rows),
		strconv.Itoa(r.SkippedItems()),
		fmt.Sprintf("%d columns", r.Columns),
	})

	return formatter.FormatTable([]string{"file", "items", "rows", "skipped items", "status"}, rows)
}

// Registry builds a Prometheus registry holding the run's figures.
func (r *Report) Registry() *prometheus.Registry {
	registry := prometheus.NewRegistry()

	gauge := func(name, help string, value float64) {
		g := prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      name,
			Help:      help,
		})
		g.Set(value)
		registry.MustRegister(g)
	}

	gauge("files_read", "Input files read in the last run.", float64(len(r.Files)))
	gauge("documents_skipped", "Input files without a usable item list.", float64(r.SkippedDocuments()))
	gauge("items", "Items seen in the last run.", float64(r.Items()))
	gauge("items_skipped", "Non-object items dropped in the last run.", float64(r.SkippedItems()))
	gauge("rows_written", "Rows written to the output table.", float64(r.Rows))
	gauge("columns_written", "Columns in the output table.", float64(r.Columns))
	gauge("run_duration_seconds", "Wall time of the last run.", r.Duration.Seconds())
	gauge("last_run_timestamp_seconds", "Start time of the last run.", float64(r.StartedAt.Unix()))

	bySource := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "rows_by_source",
		Help:      "Rows contributed by each input file.",
	}, []string{"source"})

	for _, f := range r.Files {
		bySource.WithLabelValues(f.Name).Add(float64(f.Rows))
	}

	registry.MustRegister(bySource)

	return registry
}

// WriteMetrics writes the run's figures in the Prometheus text format, for
// pickup by a node exporter textfile collector.
func (r *Report) WriteMetrics(path string) error {
	if path == "" {
		return ErrEmptyMetricsPath
	}

	if err := prometheus.WriteToTextfile(path, r.Registry()); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}

	return nil
}
