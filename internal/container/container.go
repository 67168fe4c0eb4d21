// Package container provides dependency injection for the sheet-ledger application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"context"
	"fmt"

	"fjacquet/sheet-ledger/internal/cache"
	"fjacquet/sheet-ledger/internal/config"
	"fjacquet/sheet-ledger/internal/factory"
	"fjacquet/sheet-ledger/internal/ledger"
	"fjacquet/sheet-ledger/internal/loader"
	"fjacquet/sheet-ledger/internal/logging"
	"fjacquet/sheet-ledger/internal/metrics"
	"fjacquet/sheet-ledger/internal/report"
	"fjacquet/sheet-ledger/internal/sheets"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger    logging.Logger
	config    *config.Config
	fetcher   sheets.Fetcher
	recorder  *metrics.PrometheusRecorder
	loader    *loader.Loader
	generator *report.Generator
	source    sheets.Source
}

// NewContainer creates and wires all application dependencies. A nil logger
// is replaced by one built from cfg.Log.
func NewContainer(ctx context.Context, cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	if logger == nil {
		logger = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
	}

	kind := factory.SourceKind(cfg.Source.Kind)
	fetcher, err := factory.GetFetcherWithLogger(ctx, kind, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s fetcher: %w", kind, err)
	}

	recorder := metrics.NewPrometheusRecorder()
	ledgerCache := cache.NewTTLCache[ledger.Ledger](cfg.CacheTTL(), cache.DefaultMaxEntries)

	l := loader.New(fetcher,
		loader.WithCache(ledgerCache),
		loader.WithRecorder(recorder),
		loader.WithLogger(logger),
		loader.WithSourceKind(string(kind)),
		loader.WithFetchTimeout(cfg.FetchTimeout()))

	logger.Debug("Container initialized successfully",
		logging.F(logging.FieldSourceKind, string(kind)),
		logging.F(logging.FieldTTL, cfg.CacheTTL().String()))

	return &Container{
		logger:    logger,
		config:    cfg,
		fetcher:   fetcher,
		recorder:  recorder,
		loader:    l,
		generator: report.NewGenerator(logger),
		source:    SourceFromConfig(cfg),
	}, nil
}

// SourceFromConfig builds the configured source. Only file sources carry a path.
func SourceFromConfig(cfg *config.Config) sheets.Source {
	src := sheets.Source{URL: cfg.Source.SheetURL, Tab: cfg.Source.Tab}
	if cfg.Source.Kind == config.SourceKindFile {
		src.Path = cfg.Source.File
	}
	return src
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetFetcher returns the fetcher for the configured source kind.
func (c *Container) GetFetcher() sheets.Fetcher {
	return c.fetcher
}

// GetLoader returns the caching ledger loader.
func (c *Container) GetLoader() *loader.Loader {
	return c.loader
}

// GetRecorder returns the metrics recorder shared by the loader and /metrics.
func (c *Container) GetRecorder() *metrics.PrometheusRecorder {
	return c.recorder
}

// GetGenerator returns the report generator.
func (c *Container) GetGenerator() *report.Generator {
	return c.generator
}

// Source returns the configured source.
func (c *Container) Source() sheets.Source {
	return c.source
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	dropped := c.loader.RefreshAll()
	c.logger.Debug("Container closed", logging.F(logging.FieldCount, dropped))
	return nil
}
