package factory_test

import (
	"context"
	"errors"
	"testing"

	"fjacquet/sheet-ledger/internal/config"
	"fjacquet/sheet-ledger/internal/factory"
	"fjacquet/sheet-ledger/internal/logging"
	"fjacquet/sheet-ledger/internal/parsererror"
	"fjacquet/sheet-ledger/internal/sheets"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Fetch.TimeoutSeconds = 30
	cfg.Fetch.RequestsPerMinute = 30
	cfg.CSV.Delimiter = ";"
	return cfg
}

func TestGetFetcherWithLogger(t *testing.T) {
	tests := []struct {
		name        string
		kind        factory.SourceKind
		apiKey      string
		expectType  interface{}
		expectError bool
	}{
		{name: "export fetcher", kind: factory.Export, expectType: &sheets.CSVExportFetcher{}},
		{name: "file fetcher", kind: factory.File, expectType: &sheets.FileFetcher{}},
		{name: "api fetcher with key", kind: factory.API, apiKey: "test-key", expectType: &sheets.APIFetcher{}},
		{name: "api fetcher without credentials", kind: factory.API, expectError: true},
		{name: "unknown kind", kind: "ftp", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Source.APIKey = tt.apiKey

			f, err := factory.GetFetcherWithLogger(context.Background(), tt.kind, cfg, logging.NewDiscardLogger())
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, f)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.expectType, f)
		})
	}
}

func TestGetFetcherWithLogger_UnknownKindIsInvalidSource(t *testing.T) {
	_, err := factory.GetFetcherWithLogger(context.Background(), "ftp", testConfig(), nil)
	var srcErr *parsererror.InvalidSourceError
	require.True(t, errors.As(err, &srcErr))
	assert.Contains(t, err.Error(), "unknown source kind")
}

func TestGetFetcherWithLogger_NilConfig(t *testing.T) {
	_, err := factory.GetFetcherWithLogger(context.Background(), factory.Export, nil, nil)
	assert.EqualError(t, err, "configuration cannot be nil")
}

func TestDelimiter(t *testing.T) {
	assert.Equal(t, ';', factory.Delimiter(testConfig()))
	assert.Equal(t, ',', factory.Delimiter(nil))
	assert.Equal(t, ',', factory.Delimiter(&config.Config{}))
}
