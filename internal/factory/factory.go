package factory

import (
	"context"
	"fmt"

	"fjacquet/sheet-ledger/internal/config"
	"fjacquet/sheet-ledger/internal/logging"
	"fjacquet/sheet-ledger/internal/parsererror"
	"fjacquet/sheet-ledger/internal/sheets"
)

// SourceKind defines the ways a ledger can be fetched.
type SourceKind string

const (
	Export SourceKind = config.SourceKindExport
	API    SourceKind = config.SourceKindAPI
	File   SourceKind = config.SourceKindFile
)

// SourceKinds lists every supported kind in help-text order.
var SourceKinds = []SourceKind{Export, API, File}

// GetFetcherWithLogger returns the fetcher for the given source kind, built
// from cfg and the provided logger.
func GetFetcherWithLogger(ctx context.Context, kind SourceKind, cfg *config.Config, logger logging.Logger) (sheets.Fetcher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	switch kind {
	case Export:
		return sheets.NewCSVExportFetcher(logger, cfg.FetchTimeout(), cfg.Fetch.RequestsPerMinute), nil
	case API:
		opts, err := sheets.ClientOptions(cfg.Source.APIKey, cfg.Source.CredentialsFile)
		if err != nil {
			return nil, err
		}
		f, err := sheets.NewAPIFetcher(ctx, logger, opts...)
		if err != nil {
			return nil, err
		}
		return f, nil
	case File:
		return sheets.NewFileFetcher(Delimiter(cfg), logger), nil
	default:
		return nil, &parsererror.InvalidSourceError{Source: string(kind), Reason: "unknown source kind"}
	}
}

// Delimiter returns the configured CSV delimiter as a rune.
func Delimiter(cfg *config.Config) rune {
	if cfg == nil || cfg.CSV.Delimiter == "" {
		return ','
	}
	return []rune(cfg.CSV.Delimiter)[0]
}
