// Package main provides the newsflat command-line tool for flattening news-API
// JSON dumps into one spreadsheet-ready table.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"newsflat/internal/config"
	"newsflat/internal/formatter"
	"newsflat/internal/logger"
	"newsflat/internal/pipeline"
	"newsflat/pkg/utils"
)

const defaultConfigFile = "newsflat.yaml"

func main() {
	configFile := flag.String("config", "", "Path to YAML or TOML configuration file")
	output := flag.String("output", "", "Output table path (overrides config)")
	itemsKey := flag.String("items-key", "", "Top-level field holding the item list (overrides config)")
	separator := flag.String("separator", "", "Nested key separator (overrides config)")
	delimiter := flag.String("delimiter", "", "Output field delimiter, or 'tab' (overrides config)")
	exclude := flag.String("exclude", "", "Comma-separated field names to drop (replaces config list)")
	preview := flag.Int("preview", 0, "Print the first N rows as a markdown table")
	manifest := flag.String("manifest", "", "Write a YAML run manifest to this path")
	metricsFile := flag.String("metrics-file", "", "Write Prometheus textfile metrics to this path")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error")
	logFormat := flag.String("log-format", "", "Log format: text or json")
	saveConfig := flag.String("save-config", "", "Write the effective configuration to this path and exit")
	showUsage := flag.Bool("help", false, "Show usage information")

	flag.Usage = printUsage
	flag.Parse()

	if *showUsage {
		printUsage()
		os.Exit(0)
	}

	cfg := loadConfig(*configFile)

	if err := cfg.ApplyEnv(); err != nil {
		log.Fatalf("❌ %v\n", err)
	}

	// Flags win over the environment and the config file.
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if args := flag.Args(); len(args) > 0 {
		cfg.Pipeline.Inputs = args
	}

	if set["output"] {
		cfg.Output.Path = *output
	}

	if set["items-key"] {
		cfg.Pipeline.ItemsKey = *itemsKey
	}

	if set["separator"] {
		cfg.Pipeline.Separator = *separator
	}

	if set["delimiter"] {
		cfg.Output.Delimiter = *delimiter
	}

	if set["exclude"] {
		cfg.Pipeline.Exclude = utils.SplitList(*exclude)
	}

	if set["preview"] {
		cfg.Output.PreviewRows = *preview
	}

	if set["manifest"] {
		cfg.Output.Manifest = *manifest
	}

	if set["metrics-file"] {
		cfg.Output.MetricsFile = *metricsFile
	}

	if set["log-level"] {
		cfg.Logging.Level = *logLevel
	}

	if set["log-format"] {
		cfg.Logging.Format = *logFormat
	}

	if *saveConfig != "" {
		if err := cfg.SaveConfig(*saveConfig); err != nil {
			log.Fatalf("❌ %v\n", err)
		}

		fmt.Printf("✅ Configuration saved to: %s\n", *saveConfig)

		return
	}

	if err := cfg.Validate(); err != nil {
		if errors.Is(err, config.ErrNoInputs) {
			printUsage()
		}

		log.Fatalf("❌ Invalid configuration: %v\n", err)
	}

	if err := run(cfg); err != nil {
		if errors.Is(err, pipeline.ErrFatalInput) {
			log.Fatalf("❌ Aborted, no output written: %v\n", err)
		}

		log.Fatalf("❌ %v\n", err)
	}
}

func loadConfig(path string) *config.Config {
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err != nil {
			return config.Default()
		}

		path = defaultConfigFile
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v\n", err)
	}

	return cfg
}

func run(cfg *config.Config) error {
	csvOpts, err := cfg.CSVOptions()
	if err != nil {
		return err
	}

	l := logger.New(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Writer: os.Stderr,
	})

	p, err := pipeline.New(pipeline.Options{
		Normalizer:  cfg.NormalizerOptions(),
		CSV:         csvOpts,
		Manifest:    cfg.Output.Manifest,
		MetricsFile: cfg.Output.MetricsFile,
	}, l)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := p.Run(ctx, cfg.Pipeline.Inputs, cfg.Output.Path)
	if err != nil {
		return err
	}

	fmt.Println(result.Report.Summary())
	fmt.Println()

	if cfg.Output.PreviewRows > 0 {
		fmt.Println(formatter.Preview(result.Records, cfg.Output.PreviewColumns, cfg.Output.PreviewRows, cfg.Output.PreviewWidth))
		fmt.Println()
	}

	fmt.Printf("✅ Saved %d rows x %d columns to: %s\n", result.Report.Rows, result.Report.Columns, cfg.Output.Path)

	if result.Manifest != nil {
		fmt.Printf("📝 Manifest: %s\n", cfg.Output.Manifest)
	}

	return nil
}

func printUsage() {
	fmt.Println("Usage: newsflat [OPTIONS] [INPUT...]")
	fmt.Println()
	fmt.Println("Inputs are JSON files (optionally .gz) or glob patterns such as 'dumps/**/*.json'.")
	fmt.Println("Settings come from the config file, then NEWSFLAT_* variables, then flags.")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  newsflat Left_pre.json Center_pre.json Right_pre.json")
	fmt.Println("  newsflat -output all_articles.csv -preview 5 'dumps/*.json'")
	fmt.Println("  newsflat -config newsflat.yaml -manifest all_articles.manifest.yaml")
	fmt.Println("  NEWSFLAT_DELIMITER=tab newsflat -output all_articles.tsv dumps/*.json.gz")
}
