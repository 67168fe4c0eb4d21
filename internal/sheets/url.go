package sheets

import (
	"net/url"
	"regexp"
	"strings"

	"fjacquet/sheet-ledger/internal/parsererror"
)

// DefaultBaseURL is the host serving spreadsheet exports.
const DefaultBaseURL = "https://docs.google.com"

var spreadsheetIDPattern = regexp.MustCompile(`/spreadsheets/d/([^/]+)`)

// ExtractSpreadsheetID returns the spreadsheet id embedded in a shareable URL.
func ExtractSpreadsheetID(sheetURL string) (string, error) {
	m := spreadsheetIDPattern.FindStringSubmatch(sheetURL)
	if m == nil {
		return "", &parsererror.InvalidSourceError{Source: sheetURL, Reason: "could not extract spreadsheet id from URL"}
	}
	return m[1], nil
}

// BuildCSVExportURL resolves a shareable sheet URL and tab name to the URL of
// its public CSV export.
func BuildCSVExportURL(sheetURL, tab string) (string, error) {
	return buildExportURL(DefaultBaseURL, sheetURL, tab)
}

func buildExportURL(baseURL, sheetURL, tab string) (string, error) {
	id, err := ExtractSpreadsheetID(sheetURL)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(baseURL, "/") + "/spreadsheets/d/" + id +
		"/gviz/tq?tqx=out:csv&sheet=" + escapeTab(tab), nil
}

// escapeTab percent-encodes a worksheet name, spaces as %20.
func escapeTab(tab string) string {
	return strings.ReplaceAll(url.QueryEscape(tab), "+", "%20")
}
