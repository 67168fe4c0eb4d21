// Package sheets fetches raw transaction tables from Google Sheets, either
// through the public CSV export or the Sheets v4 API, or from local files.
package sheets

import (
	"context"

	"fjacquet/sheet-ledger/internal/ledger"
)

// DefaultTab is the worksheet read when a source names none.
const DefaultTab = "Sheet1"

// Source identifies where a ledger is read from. Path takes precedence over
// URL when both are set.
type Source struct {
	URL  string
	Tab  string
	Path string
}

// TabOrDefault returns the configured worksheet name or DefaultTab.
func (s Source) TabOrDefault() string {
	if s.Tab == "" {
		return DefaultTab
	}
	return s.Tab
}

// Key returns a stable identity for caching. Two URLs pointing at the same
// spreadsheet and tab share a key.
func (s Source) Key() string {
	if s.Path != "" {
		return "file:" + s.Path
	}
	if id, err := ExtractSpreadsheetID(s.URL); err == nil {
		return "sheet:" + id + "/" + s.TabOrDefault()
	}
	return "url:" + s.URL + "/" + s.TabOrDefault()
}

// String returns a human readable description used in logs.
func (s Source) String() string {
	if s.Path != "" {
		return s.Path
	}
	return s.URL + " [" + s.TabOrDefault() + "]"
}

// Fetcher retrieves the raw table behind a Source.
type Fetcher interface {
	Fetch(ctx context.Context, src Source) (ledger.RawTable, error)
}
