// Package validation checks command-line input before any work is done.
package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fjacquet/sheet-ledger/internal/analytics"
	"fjacquet/sheet-ledger/internal/config"
	"fjacquet/sheet-ledger/internal/dateutils"
	"fjacquet/sheet-ledger/internal/fileutils"
	"fjacquet/sheet-ledger/internal/ledger"
	"fjacquet/sheet-ledger/internal/report"
	"fjacquet/sheet-ledger/internal/sheets"
)

// IsValidSource checks that the chosen source kind has what it needs.
func IsValidSource(kind, sheetURL, file string) error {
	switch kind {
	case config.SourceKindExport, config.SourceKindAPI:
		if strings.TrimSpace(sheetURL) == "" {
			return fmt.Errorf("no sheet configured: pass --sheet-url or set source.sheet_url")
		}
		_, err := sheets.ExtractSpreadsheetID(sheetURL)
		return err
	case config.SourceKindFile:
		if strings.TrimSpace(file) == "" {
			return fmt.Errorf("no file configured: pass --file or set source.file")
		}
		return IsValidPath(file)
	default:
		return fmt.Errorf("unsupported source kind: %s. Supported kinds are 'export', 'api', 'file'", kind)
	}
}

// IsValidPath checks that path exists and is a regular file.
func IsValidPath(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("error checking path %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("path %s is not a regular file", path)
	}
	return nil
}

// IsValidOutputPath checks that the directory an output file goes to exists.
// An empty path means standard output and is always valid.
func IsValidOutputPath(path string) error {
	if path == "" {
		return nil
	}
	if dir := filepath.Dir(path); !fileutils.DirectoryExists(dir) {
		return fmt.Errorf("output directory %s does not exist", dir)
	}
	return nil
}

// IsValidOutputFormat checks if the given format is supported.
func IsValidOutputFormat(format string) (report.Format, error) {
	f, err := report.ParseFormat(format)
	if err != nil {
		return "", fmt.Errorf("unsupported output format: %s. Supported formats are 'json', 'yaml', 'markdown'", format)
	}
	return f, nil
}

// IsValidPreset parses a --preset value.
func IsValidPreset(preset string) (analytics.Preset, error) {
	if preset == "" {
		return analytics.PresetThisMonth, nil
	}
	return analytics.ParsePreset(preset)
}

// IsValidDate parses an optional day-first date flag. It returns nil for an
// empty value.
func IsValidDate(flag, value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := dateutils.ParseDayFirst(value)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s %q: expected DD-MM-YYYY", flag, value)
	}
	return &t, nil
}

// IsValidTypes parses repeated --type values.
func IsValidTypes(values []string) ([]ledger.Type, error) {
	types := make([]ledger.Type, 0, len(values))
	for _, v := range values {
		t, ok := ledger.ParseType(v)
		if !ok {
			return nil, fmt.Errorf("invalid --type %q: expected 'Income' or 'Expense'", v)
		}
		types = append(types, t)
	}
	return types, nil
}

// IsValidDelimiter checks a CSV delimiter flag.
func IsValidDelimiter(delimiter string) (rune, error) {
	r := []rune(delimiter)
	if len(r) != 1 || r[0] == '"' || r[0] == '\r' || r[0] == '\n' {
		return 0, fmt.Errorf("CSV delimiter must be a single character other than a quote or newline, got: %q", delimiter)
	}
	return r[0], nil
}
