// Package root contains the root command for the application
package root

import (
	"fmt"
	"time"

	"fjacquet/sheet-ledger/cmd/common"
	"fjacquet/sheet-ledger/internal/analytics"
	"fjacquet/sheet-ledger/internal/config"
	"fjacquet/sheet-ledger/internal/container"
	"fjacquet/sheet-ledger/internal/logging"
	"fjacquet/sheet-ledger/internal/report"
	"fjacquet/sheet-ledger/internal/validation"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CommonFlags represents the source and output flags shared by every command
type CommonFlags struct {
	SheetURL   string
	Tab        string
	File       string
	SourceKind string
	Format     string
	Output     string
	LogLevel   string
}

// WindowFlags select the date window and filters of a report
type WindowFlags struct {
	Preset     string
	Start      string
	End        string
	Types      []string
	Categories []string
	Search     string
	Limit      int
}

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// AppConfig is the loaded configuration, set before any subcommand runs
	AppConfig *config.Config

	// AppContainer holds the wired dependencies, set before any subcommand runs
	AppContainer *container.Container

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "sheet-ledger",
		Short: "Personal finance dashboard over a Google Sheets transaction ledger",
		Long: `sheet-ledger reads a spreadsheet of transactions (Date, Type, Category,
Description, Amount), validates it into a typed ledger and reports balances,
income, expenses, savings rate and monthly and category breakdowns.

Sheets are read from their public CSV export, through the Sheets API, or from
a local CSV file.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: initApp,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer == nil {
				return
			}
			if err := AppContainer.Close(); err != nil {
				Log.WithError(err).Warn("Failed to close container")
			}
		},
	}

	// SharedFlags are accessible to all commands
	SharedFlags = CommonFlags{}

	// Window holds the report window flags
	Window = WindowFlags{}
)

// Init initializes the root command and all flags
func Init() {
	pf := Cmd.PersistentFlags()
	pf.StringVar(&SharedFlags.SheetURL, "sheet-url", "", "Google Sheets share URL")
	pf.StringVar(&SharedFlags.Tab, "tab", "", "Worksheet (tab) name")
	pf.StringVarP(&SharedFlags.File, "file", "f", "", "Local CSV file to read instead of a sheet")
	pf.StringVar(&SharedFlags.SourceKind, "source-kind", "", "Source kind: export, api or file")
	pf.StringVar(&SharedFlags.Format, "format", "", "Output format: json, yaml or markdown")
	pf.StringVarP(&SharedFlags.Output, "output", "o", "", "Output file (default stdout)")
	pf.StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level: trace, debug, info, warn, error")

	pf.StringVar(&Window.Preset, "preset", string(analytics.PresetThisMonth), "Date window: this-month, last-3-months, year-to-date, all, custom")
	pf.StringVar(&Window.Start, "start", "", "Window start date (DD-MM-YYYY), overrides the preset")
	pf.StringVar(&Window.End, "end", "", "Window end date (DD-MM-YYYY), overrides the preset")
	pf.StringSliceVar(&Window.Types, "type", nil, "Keep only Income or Expense transactions (repeatable)")
	pf.StringSliceVar(&Window.Categories, "category", nil, "Keep only these categories (repeatable)")
	pf.StringVar(&Window.Search, "search", "", "Case-insensitive description substring")
	pf.IntVar(&Window.Limit, "limit", 0, "Number of top expenses (default report.top_limit)")
}

func initApp(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "help" {
		return nil
	}

	bootstrap := logrus.New()
	bootstrap.SetLevel(logrus.WarnLevel)
	config.LoadEnv(bootstrap)

	cfg, err := config.InitializeConfig()
	if err != nil {
		return err
	}
	if err := ApplyFlags(cmd, cfg); err != nil {
		return err
	}

	Log = logging.NewLogrusAdapterFromLogger(config.ConfigureLoggingFromConfig(cfg))
	AppConfig = cfg

	c, err := container.NewContainer(cmd.Context(), cfg, Log)
	if err != nil {
		return err
	}
	AppContainer = c
	return nil
}

// ApplyFlags overlays explicitly set flags on the loaded configuration and
// validates the result. --file alone switches the source kind to file.
func ApplyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	if flags.Changed("sheet-url") {
		cfg.Source.SheetURL = SharedFlags.SheetURL
	}
	if flags.Changed("tab") {
		cfg.Source.Tab = SharedFlags.Tab
	}
	if flags.Changed("file") {
		cfg.Source.File = SharedFlags.File
		cfg.Source.Kind = config.SourceKindFile
	}
	if flags.Changed("source-kind") {
		cfg.Source.Kind = SharedFlags.SourceKind
	}
	if flags.Changed("format") {
		cfg.Report.Format = SharedFlags.Format
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = SharedFlags.LogLevel
	}

	if _, err := validation.IsValidOutputFormat(cfg.Report.Format); err != nil {
		return err
	}
	if err := validation.IsValidOutputPath(SharedFlags.Output); err != nil {
		return err
	}
	return validation.IsValidSource(cfg.Source.Kind, cfg.Source.SheetURL, cfg.Source.File)
}

// Query converts the window flags into a report query for today. A zero
// limit falls back to defaultLimit.
func (w WindowFlags) Query(today time.Time, defaultLimit int) (report.Query, error) {
	preset, err := validation.IsValidPreset(w.Preset)
	if err != nil {
		return report.Query{}, err
	}
	start, err := validation.IsValidDate("start", w.Start)
	if err != nil {
		return report.Query{}, err
	}
	end, err := validation.IsValidDate("end", w.End)
	if err != nil {
		return report.Query{}, err
	}
	types, err := validation.IsValidTypes(w.Types)
	if err != nil {
		return report.Query{}, err
	}

	limit := w.Limit
	if limit == 0 {
		limit = defaultLimit
	}
	if limit < 0 {
		return report.Query{}, fmt.Errorf("invalid --limit %d: must not be negative", w.Limit)
	}

	return report.Query{
		Preset:   preset,
		Start:    start,
		End:      end,
		TopLimit: limit,
		Today:    today,
		Filter: analytics.Filter{
			Types:      types,
			Categories: w.Categories,
			Search:     w.Search,
		},
	}, nil
}

// NewRequest builds the request for a report command from the loaded
// configuration and the window flags.
func NewRequest(section report.Section) (common.Request, error) {
	if AppConfig == nil || AppContainer == nil {
		return common.Request{}, fmt.Errorf("application not initialized")
	}

	loc := AppConfig.Location()
	q, err := Window.Query(common.Today(loc), AppConfig.Report.TopLimit)
	if err != nil {
		return common.Request{}, err
	}
	format, err := validation.IsValidOutputFormat(AppConfig.Report.Format)
	if err != nil {
		return common.Request{}, err
	}

	return common.Request{
		Source:   AppContainer.Source(),
		Query:    q,
		Section:  section,
		Format:   format,
		Output:   SharedFlags.Output,
		Location: loc,
	}, nil
}
