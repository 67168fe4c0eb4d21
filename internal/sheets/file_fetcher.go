package sheets

import (
	"context"
	"fmt"

	"fjacquet/sheet-ledger/internal/fileutils"
	"fjacquet/sheet-ledger/internal/ledger"
	"fjacquet/sheet-ledger/internal/logging"
	"fjacquet/sheet-ledger/internal/parsererror"
)

// FileFetcher reads a delimited file from disk, typically a CSV downloaded
// from the sheet or written by the export command.
type FileFetcher struct {
	delimiter rune
	logger    logging.Logger
}

// NewFileFetcher creates a FileFetcher. A zero delimiter means comma.
func NewFileFetcher(delimiter rune, logger logging.Logger) *FileFetcher {
	if delimiter == 0 {
		delimiter = ','
	}
	return &FileFetcher{
		delimiter: delimiter,
		logger:    logging.OrDefault(logger).WithField(logging.FieldComponent, logging.ComponentFetcher),
	}
}

// Fetch reads src.Path.
func (f *FileFetcher) Fetch(ctx context.Context, src Source) (ledger.RawTable, error) {
	if src.Path == "" {
		return ledger.RawTable{}, &parsererror.InvalidSourceError{Source: src.URL, Reason: "no file path given"}
	}
	if err := ctx.Err(); err != nil {
		return ledger.RawTable{}, err
	}

	file, err := fileutils.OpenFile(src.Path)
	if err != nil {
		return ledger.RawTable{}, &parsererror.InvalidSourceError{Source: src.Path, Reason: err.Error()}
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			f.logger.WithError(cerr).Warn("Failed to close file", logging.F(logging.FieldSource, src.Path))
		}
	}()

	table, err := ledger.ReadCSV(file, f.delimiter)
	if err != nil {
		return ledger.RawTable{}, fmt.Errorf("failed to read %s: %w", src.Path, err)
	}

	f.logger.Debug("Read ledger file",
		logging.F(logging.FieldSource, src.Path),
		logging.F(logging.FieldRows, len(table.Rows)))
	return table, nil
}
