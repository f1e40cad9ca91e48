package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/starchart-tools/wayfarer/internal/catalog"
	"github.com/starchart-tools/wayfarer/internal/classify"
	"github.com/starchart-tools/wayfarer/internal/config"
	"github.com/starchart-tools/wayfarer/internal/extract"
	"github.com/starchart-tools/wayfarer/internal/keymap"
	"github.com/starchart-tools/wayfarer/internal/log"
	"github.com/starchart-tools/wayfarer/internal/pipeline"
	"github.com/starchart-tools/wayfarer/internal/queue"
	"github.com/starchart-tools/wayfarer/internal/report"
	"github.com/starchart-tools/wayfarer/internal/store"
)

// buildConfig assembles the configuration in layers: defaults, the
// config file, then flags set on this command. Only flags the user
// actually changed override file values.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	persistent := cmd.Root().PersistentFlags()
	if persistent.Changed("log-json") {
		cfg.LogJSON, _ = persistent.GetBool("log-json")
	}

	flags := cmd.Flags()
	if flags.Changed("save-dir") {
		cfg.SaveDir, _ = flags.GetString("save-dir")
	}
	if flags.Changed("pattern") {
		cfg.SavePattern, _ = flags.GetString("pattern")
	}
	if flags.Changed("debounce") {
		cfg.Debounce, _ = flags.GetDuration("debounce")
	}
	if flags.Changed("catalog-url") {
		cfg.CatalogURL, _ = flags.GetString("catalog-url")
	}
	if flags.Changed("api-key") {
		cfg.APIKey, _ = flags.GetString("api-key")
	}
	if flags.Changed("data-dir") {
		cfg.DataDir, _ = flags.GetString("data-dir")
	}
	if flags.Changed("keymap") {
		cfg.KeymapPath, _ = flags.GetString("keymap")
	}
	if flags.Changed("min-radius") {
		cfg.MinRadius, _ = flags.GetFloat64("min-radius")
	}
	if flags.Changed("timeout") {
		cfg.Timeout, _ = flags.GetDuration("timeout")
	}
	if flags.Changed("force") {
		cfg.Force, _ = flags.GetBool("force")
	}
	if flags.Changed("json") {
		cfg.JSONReport, _ = flags.GetBool("json")
	}
	if flags.Changed("markdown") {
		cfg.MarkdownReport, _ = flags.GetBool("markdown")
	}
	if flags.Changed("output") {
		cfg.ReportFile, _ = flags.GetString("output")
	}

	return cfg, nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates the redacting logger. The API key is registered
// as a secret so it never appears in log output, even at debug level.
func setupLogger(cfg *config.Config) *slog.Logger {
	if cfg.LogJSON {
		return log.NewJSONLogger(os.Stderr, cfg.Verbose, cfg.APIKey)
	}
	return log.NewLogger(os.Stderr, cfg.Verbose, cfg.APIKey)
}

// app bundles the wired application: the open store, the catalog sink,
// and the runner and queue built on top of them.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *store.Store
	sink   catalog.Sink
	queue  *queue.Manager
	runner *pipeline.Runner
}

// newApp opens the store and wires the processing stack from the
// configuration. Callers must Close the returned app.
func newApp(cfg *config.Config, logger *slog.Logger) (*app, error) {
	st, err := store.Open(cfg.StoreDir(), store.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	sink, err := buildSink(cfg, logger)
	if err != nil {
		st.Close() //nolint:errcheck // Best effort cleanup
		return nil, err
	}

	table, err := keymap.Load(cfg.KeymapPath)
	if err != nil {
		st.Close() //nolint:errcheck // Best effort cleanup
		return nil, err
	}

	manager := queue.NewManager(st, sink, queue.WithLogger(logger))

	deps := pipeline.Deps{
		Store:      st,
		Table:      table,
		Extractor:  extract.New(extract.WithLogger(logger)),
		Classifier: classify.NewClassifier(st, sink, classify.WithLogger(logger)),
		Sink:       sink,
		Queue:      manager,
		Logger:     logger,
		Force:      cfg.Force,
		MinRadius:  cfg.MinRadius,
	}

	runner := pipeline.NewRunner(deps,
		pipeline.WithNotifier(report.NewLogNotifier(logger)))

	return &app{
		cfg:    cfg,
		logger: logger,
		store:  st,
		sink:   sink,
		queue:  manager,
		runner: runner,
	}, nil
}

// buildSink selects the catalog sink: the HTTP client when an API key
// is configured, the local spool otherwise.
func buildSink(cfg *config.Config, logger *slog.Logger) (catalog.Sink, error) {
	if cfg.APIKey != "" {
		return catalog.NewClient(cfg.CatalogURL, cfg.APIKey,
			catalog.WithTimeout(cfg.Timeout),
			catalog.WithUserAgent(cfg.UserAgent),
			catalog.WithClientLogger(logger)), nil
	}

	sink, err := catalog.NewSpoolSink(cfg.SpoolPath(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open spool: %w", err)
	}
	fmt.Fprintf(os.Stderr, "No API key configured; submissions are spooled to %s\n", sink.Path())
	return sink, nil
}

// Close releases the app's resources.
func (a *app) Close() error {
	return a.store.Close()
}

// openReportOutput resolves the report destination: the configured
// file, or stdout. The caller must call the returned cleanup func.
func openReportOutput(cfg *config.Config) (io.Writer, func(), error) {
	if cfg.ReportFile == "" {
		return os.Stdout, func() {}, nil
	}

	dir := filepath.Dir(cfg.ReportFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { f.Close() }, nil //nolint:errcheck // Best effort cleanup
}

// newReportWriter selects the report format from the configuration.
func newReportWriter(cfg *config.Config, output io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output)
	default:
		return report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}
}
