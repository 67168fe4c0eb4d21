// Package common contains shared functionality for command handlers
package common

import (
	"context"
	"fmt"
	"io"
	"time"

	"fjacquet/sheet-ledger/internal/dateutils"
	"fjacquet/sheet-ledger/internal/fileutils"
	"fjacquet/sheet-ledger/internal/ledger"
	"fjacquet/sheet-ledger/internal/loader"
	"fjacquet/sheet-ledger/internal/logging"
	"fjacquet/sheet-ledger/internal/report"
	"fjacquet/sheet-ledger/internal/sheets"
)

// LedgerLoader loads the ledger behind a source.
type LedgerLoader interface {
	Load(ctx context.Context, src sheets.Source) (loader.Result, error)
}

// Renderer renders a dashboard section in a format.
type Renderer interface {
	GenerateSection(d *report.Dashboard, section report.Section, format report.Format) ([]byte, error)
}

// Request is everything a report command needs.
type Request struct {
	Source   sheets.Source
	Query    report.Query
	Section  report.Section
	Format   report.Format
	Output   string
	Location *time.Location
}

// Today returns the current calendar day in loc.
func Today(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return dateutils.Truncate(time.Now().In(loc))
}

// BuildDashboard loads the request's source and builds its dashboard.
func BuildDashboard(ctx context.Context, l LedgerLoader, req Request) (*report.Dashboard, error) {
	res, err := l.Load(ctx, req.Source)
	if err != nil {
		return nil, err
	}

	d, err := report.Build(ctx, res.Ledger, req.Query)
	if err != nil {
		return nil, err
	}
	loc := req.Location
	if loc == nil {
		loc = time.UTC
	}
	d.LastRefreshed = res.FetchedAt.In(loc)
	return d, nil
}

// RunSection builds the dashboard and writes one rendered section to the
// request's output, or to stdout when no output file is set.
func RunSection(ctx context.Context, l LedgerLoader, r Renderer, req Request, stdout io.Writer, log logging.Logger) error {
	log = logging.OrDefault(log)

	d, err := BuildDashboard(ctx, l, req)
	if err != nil {
		return err
	}

	data, err := r.GenerateSection(d, req.Section, req.Format)
	if err != nil {
		return err
	}

	log.Debug("Rendered report",
		logging.F("section", string(req.Section)),
		logging.F(logging.FieldFormat, string(req.Format)),
		logging.F(logging.FieldOutputFile, req.Output),
		logging.F(logging.FieldCount, d.SelectedCount))
	return WriteOutput(req.Output, data, stdout)
}

// ExportSelection loads the request's source and writes the selected
// transactions, with their running balances, as CSV.
func ExportSelection(ctx context.Context, l LedgerLoader, req Request, delimiter rune, stdout io.Writer, log logging.Logger) (int, error) {
	log = logging.OrDefault(log)

	res, err := l.Load(ctx, req.Source)
	if err != nil {
		return 0, err
	}
	sel, err := report.Select(res.Ledger, req.Query)
	if err != nil {
		return 0, err
	}

	w, closeFn, err := openOutput(req.Output, stdout)
	if err != nil {
		return 0, err
	}
	if err := ledger.WriteCSVWithBalance(w, sel.Ledger, sel.Balances, delimiter); err != nil {
		_ = closeFn()
		return 0, err
	}
	if err := closeFn(); err != nil {
		return 0, fmt.Errorf("failed to close %s: %w", req.Output, err)
	}

	log.Info("Exported transactions",
		logging.F(logging.FieldRows, sel.Ledger.Len()),
		logging.F(logging.FieldStart, sel.Range.Start.Format(time.DateOnly)),
		logging.F(logging.FieldEnd, sel.Range.End.Format(time.DateOnly)),
		logging.F(logging.FieldOutputFile, req.Output))
	return sel.Ledger.Len(), nil
}

// WriteOutput writes data to path, or to stdout when path is empty.
func WriteOutput(path string, data []byte, stdout io.Writer) error {
	w, closeFn, err := openOutput(path, stdout)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		_ = closeFn()
		return fmt.Errorf("failed to write output: %w", err)
	}
	return closeFn()
}

func openOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "" {
		return stdout, func() error { return nil }, nil
	}
	f, err := fileutils.CreateFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file %s: %w", path, err)
	}
	return f, f.Close, nil
}
