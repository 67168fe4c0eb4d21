package root_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"fjacquet/sheet-ledger/cmd/root"
	"fjacquet/sheet-ledger/internal/analytics"
	"fjacquet/sheet-ledger/internal/config"
	"fjacquet/sheet-ledger/internal/ledger"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	root.Init()
	os.Exit(m.Run())
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "sheet-ledger", root.Cmd.Use)
	assert.Contains(t, root.Cmd.Short, "Personal finance dashboard")
	assert.Contains(t, root.Cmd.Long, "Description, Amount")
	assert.NotNil(t, root.Cmd.PersistentPreRunE)
	assert.NotNil(t, root.Cmd.PersistentPostRun)
	assert.True(t, root.Cmd.SilenceUsage)
	assert.True(t, root.Cmd.SilenceErrors)
}

func TestRootCommand_Flags(t *testing.T) {
	pf := root.Cmd.PersistentFlags()

	tests := []struct {
		name      string
		shorthand string
		def       string
	}{
		{"sheet-url", "", ""},
		{"tab", "", ""},
		{"file", "f", ""},
		{"source-kind", "", ""},
		{"format", "", ""},
		{"output", "o", ""},
		{"log-level", "", ""},
		{"preset", "", "this-month"},
		{"start", "", ""},
		{"end", "", ""},
		{"type", "", "[]"},
		{"category", "", "[]"},
		{"search", "", ""},
		{"limit", "", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := pf.Lookup(tt.name)
			require.NotNil(t, flag)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
			assert.Equal(t, tt.def, flag.DefValue)
		})
	}
}

func TestPostRun_WithoutContainer(t *testing.T) {
	root.AppContainer = nil
	assert.NotPanics(t, func() {
		root.Cmd.PersistentPostRun(&cobra.Command{}, nil)
	})
}

func TestNewRequest_NotInitialized(t *testing.T) {
	root.AppConfig = nil
	root.AppContainer = nil

	_, err := root.NewRequest("summary")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not initialized")
}

func TestWindowFlags_Query(t *testing.T) {
	today := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	t.Run("defaults", func(t *testing.T) {
		q, err := root.WindowFlags{}.Query(today, 10)
		require.NoError(t, err)
		assert.Equal(t, analytics.PresetThisMonth, q.Preset)
		assert.Equal(t, 10, q.TopLimit)
		assert.Equal(t, today, q.Today)
		assert.Nil(t, q.Start)
		assert.Nil(t, q.End)
		assert.True(t, q.Filter.IsZero())
	})

	t.Run("all flags", func(t *testing.T) {
		w := root.WindowFlags{
			Preset:     "custom",
			Start:      "01-01-2024",
			End:        "31-01-2024",
			Types:      []string{"expense"},
			Categories: []string{"Food"},
			Search:     "rent",
			Limit:      3,
		}
		q, err := w.Query(today, 10)
		require.NoError(t, err)
		assert.Equal(t, analytics.PresetCustom, q.Preset)
		require.NotNil(t, q.Start)
		require.NotNil(t, q.End)
		assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *q.Start)
		assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), *q.End)
		assert.Equal(t, []ledger.Type{ledger.Expense}, q.Filter.Types)
		assert.Equal(t, []string{"Food"}, q.Filter.Categories)
		assert.Equal(t, "rent", q.Filter.Search)
		assert.Equal(t, 3, q.TopLimit)
	})

	errorCases := []struct {
		name   string
		flags  root.WindowFlags
		errMsg string
	}{
		{"bad preset", root.WindowFlags{Preset: "last-week"}, "last-week"},
		{"iso start", root.WindowFlags{Start: "2024-01-01"}, "--start"},
		{"bad end", root.WindowFlags{End: "31/13/2024"}, "--end"},
		{"bad type", root.WindowFlags{Types: []string{"Transfer"}}, "--type"},
		{"negative limit", root.WindowFlags{Limit: -1}, "--limit"},
	}
	for _, tt := range errorCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.flags.Query(today, 10)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func newFlagCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	for _, name := range []string{"sheet-url", "tab", "file", "source-kind", "format", "log-level"} {
		cmd.Flags().String(name, "", "")
	}
	return cmd
}

func defaultConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Source.Kind = config.SourceKindExport
	cfg.Source.SheetURL = "https://docs.google.com/spreadsheets/d/abc123/edit"
	cfg.Source.Tab = "Sheet1"
	cfg.Report.Format = "markdown"
	cfg.Log.Level = "info"
	return cfg
}

func TestApplyFlags(t *testing.T) {
	original := root.SharedFlags
	t.Cleanup(func() { root.SharedFlags = original })

	t.Run("unchanged flags keep config", func(t *testing.T) {
		root.SharedFlags = root.CommonFlags{Tab: "Ignored"}
		cfg := defaultConfig()

		require.NoError(t, root.ApplyFlags(newFlagCommand(), cfg))
		assert.Equal(t, "Sheet1", cfg.Source.Tab)
		assert.Equal(t, config.SourceKindExport, cfg.Source.Kind)
	})

	t.Run("file switches source kind", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ledger.csv")
		require.NoError(t, os.WriteFile(path, []byte("Date,Type,Category,Description,Amount\n"), 0600))

		root.SharedFlags = root.CommonFlags{File: path, Format: "json", LogLevel: "debug"}
		cmd := newFlagCommand()
		require.NoError(t, cmd.Flags().Set("file", path))
		require.NoError(t, cmd.Flags().Set("format", "json"))
		require.NoError(t, cmd.Flags().Set("log-level", "debug"))
		cfg := defaultConfig()

		require.NoError(t, root.ApplyFlags(cmd, cfg))
		assert.Equal(t, config.SourceKindFile, cfg.Source.Kind)
		assert.Equal(t, path, cfg.Source.File)
		assert.Equal(t, "json", cfg.Report.Format)
		assert.Equal(t, "debug", cfg.Log.Level)
	})

	t.Run("sheet url and tab", func(t *testing.T) {
		root.SharedFlags = root.CommonFlags{SheetURL: "https://docs.google.com/spreadsheets/d/xyz/edit", Tab: "2024"}
		cmd := newFlagCommand()
		require.NoError(t, cmd.Flags().Set("sheet-url", root.SharedFlags.SheetURL))
		require.NoError(t, cmd.Flags().Set("tab", "2024"))
		cfg := defaultConfig()

		require.NoError(t, root.ApplyFlags(cmd, cfg))
		assert.Equal(t, root.SharedFlags.SheetURL, cfg.Source.SheetURL)
		assert.Equal(t, "2024", cfg.Source.Tab)
	})

	errorCases := []struct {
		name   string
		flag   string
		shared root.CommonFlags
		errMsg string
	}{
		{"bad format", "format", root.CommonFlags{Format: "pdf"}, "unsupported output format"},
		{"bad source kind", "source-kind", root.CommonFlags{SourceKind: "ftp"}, "unsupported source kind"},
		{"bad sheet url", "sheet-url", root.CommonFlags{SheetURL: "https://example.com/nope"}, "spreadsheet id"},
		{"missing file", "file", root.CommonFlags{File: "/does/not/exist.csv"}, "does not exist"},
	}
	for _, tt := range errorCases {
		t.Run(tt.name, func(t *testing.T) {
			root.SharedFlags = tt.shared
			cmd := newFlagCommand()
			var value string
			switch tt.flag {
			case "format":
				value = tt.shared.Format
			case "source-kind":
				value = tt.shared.SourceKind
			case "sheet-url":
				value = tt.shared.SheetURL
			case "file":
				value = tt.shared.File
			}
			require.NoError(t, cmd.Flags().Set(tt.flag, value))

			err := root.ApplyFlags(cmd, defaultConfig())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
