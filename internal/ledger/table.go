package ledger

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"fjacquet/sheet-ledger/internal/parsererror"

	"github.com/gocarina/gocsv"
)

// RawTable is untyped tabular input: a header row plus data rows of cell
// text. Rows may be shorter than Columns; missing cells read as empty.
type RawTable struct {
	Columns []string
	Rows    [][]string
}

// Cell returns the text at (row, col), or "" when the row is too short.
func (t RawTable) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// ReadCSV reads a delimited table whose first record is the header. Quotes
// are handled leniently and rows may have any number of fields.
func ReadCSV(r io.Reader, delimiter rune) (RawTable, error) {
	reader := gocsv.LazyCSVReader(r)
	if cr, ok := reader.(*csv.Reader); ok {
		cr.Comma = delimiter
		cr.FieldsPerRecord = -1
	}

	records, err := reader.ReadAll()
	if err != nil {
		return RawTable{}, &parsererror.InvalidFormatError{Source: "csv", Msg: "malformed CSV", Err: err}
	}
	if len(records) == 0 {
		return RawTable{}, &parsererror.InvalidFormatError{Source: "csv", Msg: "no header row", Err: errors.New("empty input")}
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	return RawTable{Columns: header, Rows: records[1:]}, nil
}
