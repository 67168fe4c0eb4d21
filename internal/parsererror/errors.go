// Package parsererror defines the typed errors raised while turning a raw
// spreadsheet into a ledger, and while fetching that spreadsheet.
package parsererror

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MaxExamples bounds the offending rows carried by row-level errors.
const MaxExamples = 5

// Sentinels for errors.Is checks. Every typed normalization error unwraps to one of these.
var (
	ErrMissingColumns     = errors.New("missing required columns")
	ErrUnparseableDates   = errors.New("unparseable dates")
	ErrInvalidType        = errors.New("invalid transaction type")
	ErrUnparseableAmounts = errors.New("unparseable amounts")
)

// ExampleRow is an offending input row as the user would see it in the sheet.
// Row is the 1-based spreadsheet line; the header is line 1.
type ExampleRow struct {
	Row         int    `json:"Row"`
	Date        string `json:"Date"`
	Type        string `json:"Type"`
	Category    string `json:"Category"`
	Description string `json:"Description"`
	Amount      string `json:"Amount"`
}

func examplesJSON(rows []ExampleRow) string {
	if rows == nil {
		rows = []ExampleRow{}
	}
	b, err := json.Marshal(rows)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// MissingColumnsError reports required fields that no input column matched.
// Found lists every input header as given, placeholders included.
type MissingColumnsError struct {
	Missing []string
	Found   []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("Missing required columns: %s. Found columns: %s",
		strings.Join(e.Missing, ", "), strings.Join(e.Found, ", "))
}

func (e *MissingColumnsError) Unwrap() error {
	return ErrMissingColumns
}

// UnparseableDatesError reports Date cells that are not day-first dates.
type UnparseableDatesError struct {
	Count    int
	Examples []ExampleRow
}

func (e *UnparseableDatesError) Error() string {
	return fmt.Sprintf("%d date(s) could not be parsed with DD-MM-YYYY. Example rows: %s",
		e.Count, examplesJSON(e.Examples))
}

func (e *UnparseableDatesError) Unwrap() error {
	return ErrUnparseableDates
}

// InvalidTypeError lists the distinct, sorted Type values that are neither
// income nor expense, after trimming and lower-casing.
type InvalidTypeError struct {
	Values []string
}

func (e *InvalidTypeError) Error() string {
	quoted := make([]string, len(e.Values))
	for i, v := range e.Values {
		quoted[i] = strconv.Quote(v)
	}
	return fmt.Sprintf("Invalid Type values found: %s. Expected 'Income' or 'Expense'.",
		strings.Join(quoted, ", "))
}

func (e *InvalidTypeError) Unwrap() error {
	return ErrInvalidType
}

// UnparseableAmountsError reports Amount cells that are not numbers once
// currency glyphs and thousands separators are stripped.
type UnparseableAmountsError struct {
	Count    int
	Examples []ExampleRow
}

func (e *UnparseableAmountsError) Error() string {
	return fmt.Sprintf("%d amount(s) could not be parsed as numbers. Example rows: %s",
		e.Count, examplesJSON(e.Examples))
}

func (e *UnparseableAmountsError) Unwrap() error {
	return ErrUnparseableAmounts
}

// InvalidFormatError represents input that is not a readable table at all.
type InvalidFormatError struct {
	Source string
	Msg    string
	Err    error
}

func (e *InvalidFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid format in source '%s': %s: %v", e.Source, e.Msg, e.Err)
	}
	return fmt.Sprintf("invalid format in source '%s': %s", e.Source, e.Msg)
}

func (e *InvalidFormatError) Unwrap() error {
	return e.Err
}

// InvalidSourceError represents a source that cannot be resolved, such as a
// URL without a spreadsheet id or an unknown source kind.
type InvalidSourceError struct {
	Source string
	Reason string
}

func (e *InvalidSourceError) Error() string {
	return fmt.Sprintf("invalid source '%s': %s", e.Source, e.Reason)
}

// FetchError represents a transport failure or a non-2xx response while
// fetching a spreadsheet. StatusCode is 0 for transport failures.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsNormalizationError reports whether err stems from validating sheet
// contents, as opposed to fetching them.
func IsNormalizationError(err error) bool {
	return errors.Is(err, ErrMissingColumns) ||
		errors.Is(err, ErrUnparseableDates) ||
		errors.Is(err, ErrInvalidType) ||
		errors.Is(err, ErrUnparseableAmounts)
}
