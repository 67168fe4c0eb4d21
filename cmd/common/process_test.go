package common_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fjacquet/sheet-ledger/cmd/common"
	"fjacquet/sheet-ledger/internal/analytics"
	"fjacquet/sheet-ledger/internal/ledger"
	"fjacquet/sheet-ledger/internal/loader"
	"fjacquet/sheet-ledger/internal/logging"
	"fjacquet/sheet-ledger/internal/report"
	"fjacquet/sheet-ledger/internal/sheets"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockLoader implements common.LedgerLoader for testing
type MockLoader struct {
	mock.Mock
}

func (m *MockLoader) Load(ctx context.Context, src sheets.Source) (loader.Result, error) {
	args := m.Called(ctx, src)
	return args.Get(0).(loader.Result), args.Error(1)
}

var (
	testSource  = sheets.Source{URL: "https://docs.google.com/spreadsheets/d/abc123/edit", Tab: "Sheet1"}
	testToday   = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	testFetched = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
)

func sampleLedger(t *testing.T) ledger.Ledger {
	t.Helper()
	l, err := ledger.Normalize(ledger.RawTable{
		Columns: []string{"Date", "Type", "Category", "Description", "Amount"},
		Rows: [][]string{
			{"01-01-2024", "Income", "Salary", "January salary", "100000"},
			{"05-01-2024", "Expense", "Food", "Groceries", "20000"},
			{"10-02-2024", "Expense", "Rent", "February rent", "50000"},
		},
	})
	require.NoError(t, err)
	return l
}

func newRequest(section report.Section, format report.Format) common.Request {
	return common.Request{
		Source:   testSource,
		Query:    report.Query{Preset: analytics.PresetAll, Today: testToday},
		Section:  section,
		Format:   format,
		Location: time.UTC,
	}
}

func TestToday(t *testing.T) {
	today := common.Today(nil)
	assert.Equal(t, 0, today.Hour())
	assert.Equal(t, 0, today.Minute())

	lagos, err := time.LoadLocation("Africa/Lagos")
	require.NoError(t, err)
	assert.Equal(t, 0, common.Today(lagos).Hour())
}

func TestBuildDashboard(t *testing.T) {
	m := new(MockLoader)
	m.On("Load", mock.Anything, testSource).
		Return(loader.Result{Ledger: sampleLedger(t), FetchedAt: testFetched}, nil).Once()

	d, err := common.BuildDashboard(context.Background(), m, newRequest(report.SectionAll, report.FormatJSON))
	require.NoError(t, err)

	assert.Equal(t, 3, d.LedgerSize)
	assert.Equal(t, 3, d.SelectedCount)
	assert.Equal(t, "30000", d.Summary.CurrentBalance.String())
	assert.True(t, d.LastRefreshed.Equal(testFetched))
	m.AssertExpectations(t)
}

func TestBuildDashboard_LoadError(t *testing.T) {
	m := new(MockLoader)
	m.On("Load", mock.Anything, testSource).Return(loader.Result{}, errors.New("sheet unavailable"))

	_, err := common.BuildDashboard(context.Background(), m, newRequest(report.SectionAll, report.FormatJSON))
	require.Error(t, err)
	assert.Equal(t, "sheet unavailable", err.Error())
}

func TestRunSection(t *testing.T) {
	m := new(MockLoader)
	m.On("Load", mock.Anything, testSource).
		Return(loader.Result{Ledger: sampleLedger(t), FetchedAt: testFetched}, nil)
	gen := report.NewGenerator(logging.NewDiscardLogger())

	t.Run("summary as json", func(t *testing.T) {
		var out bytes.Buffer
		err := common.RunSection(context.Background(), m, gen, newRequest(report.SectionSummary, report.FormatJSON), &out, logging.NewDiscardLogger())
		require.NoError(t, err)

		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
		assert.Equal(t, "all", decoded["preset"])
		assert.Equal(t, float64(3), decoded["selected_count"])
		summary := decoded["summary"].(map[string]interface{})
		assert.Equal(t, "30000", summary["current_balance"])
	})

	t.Run("markdown to file", func(t *testing.T) {
		req := newRequest(report.SectionAll, report.FormatMarkdown)
		req.Output = filepath.Join(t.TempDir(), "dashboard.md")

		var out bytes.Buffer
		require.NoError(t, common.RunSection(context.Background(), m, gen, req, &out, nil))
		assert.Empty(t, out.String())

		data, err := os.ReadFile(req.Output)
		require.NoError(t, err)
		assert.Contains(t, string(data), "# Personal Finance Dashboard")
		assert.Contains(t, string(data), "## Top expenses")
	})

	t.Run("unknown format", func(t *testing.T) {
		var out bytes.Buffer
		err := common.RunSection(context.Background(), m, gen, newRequest(report.SectionAll, "xml"), &out, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported report format")
	})
}

func TestExportSelection(t *testing.T) {
	m := new(MockLoader)
	m.On("Load", mock.Anything, testSource).
		Return(loader.Result{Ledger: sampleLedger(t), FetchedAt: testFetched}, nil)

	t.Run("expenses keep full-ledger balances", func(t *testing.T) {
		req := newRequest(report.SectionTransactions, report.FormatJSON)
		req.Query.Filter = analytics.Filter{Types: []ledger.Type{ledger.Expense}}

		var out bytes.Buffer
		n, err := common.ExportSelection(context.Background(), m, req, ',', &out, logging.NewDiscardLogger())
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, "Date,Type,Category,Description,Amount,SignedAmount,RunningBalance", lines[0])
		assert.Equal(t, "05-01-2024,Expense,Food,Groceries,20000,-20000,80000", lines[1])
		assert.Equal(t, "10-02-2024,Expense,Rent,February rent,50000,-50000,30000", lines[2])
	})

	t.Run("logs window and output", func(t *testing.T) {
		req := newRequest(report.SectionTransactions, report.FormatJSON)
		req.Output = filepath.Join(t.TempDir(), "logged.csv")
		log := logging.NewMockLogger()

		_, err := common.ExportSelection(context.Background(), m, req, ',', &bytes.Buffer{}, log)
		require.NoError(t, err)

		entries := log.GetEntriesByLevel("INFO")
		require.Len(t, entries, 1)
		assert.Equal(t, "Exported transactions", entries[0].Message)
		start, ok := entries[0].FieldValue(logging.FieldStart)
		require.True(t, ok)
		assert.Equal(t, "2024-01-01", start)
		_, ok = entries[0].FieldValue(logging.FieldEnd)
		assert.True(t, ok)
		output, ok := entries[0].FieldValue(logging.FieldOutputFile)
		require.True(t, ok)
		assert.Equal(t, req.Output, output)
	})

	t.Run("semicolon delimiter to file", func(t *testing.T) {
		req := newRequest(report.SectionTransactions, report.FormatJSON)
		req.Output = filepath.Join(t.TempDir(), "selected.csv")

		n, err := common.ExportSelection(context.Background(), m, req, ';', &bytes.Buffer{}, nil)
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		data, err := os.ReadFile(req.Output)
		require.NoError(t, err)
		assert.Contains(t, string(data), "01-01-2024;Income;Salary;January salary;100000;100000;100000")
	})

	t.Run("invalid window", func(t *testing.T) {
		start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		req := newRequest(report.SectionTransactions, report.FormatJSON)
		req.Query.Start = &start
		req.Query.End = &end

		_, err := common.ExportSelection(context.Background(), m, req, ',', &bytes.Buffer{}, nil)
		require.Error(t, err)
	})
}

func TestWriteOutput(t *testing.T) {
	t.Run("stdout", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, common.WriteOutput("", []byte("hello"), &out))
		assert.Equal(t, "hello", out.String())
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.txt")
		require.NoError(t, common.WriteOutput(path, []byte("hello"), &bytes.Buffer{}))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(data))
	})

	t.Run("missing directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "out.txt")
		err := common.WriteOutput(path, []byte("hello"), &bytes.Buffer{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create output file")
	})
}
