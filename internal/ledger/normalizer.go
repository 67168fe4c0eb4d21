package ledger

import (
	"sort"
	"strings"
	"time"

	"fjacquet/sheet-ledger/internal/currencyutils"
	"fjacquet/sheet-ledger/internal/dateutils"
	"fjacquet/sheet-ledger/internal/logging"
	"fjacquet/sheet-ledger/internal/parsererror"

	"github.com/shopspring/decimal"
)

// Normalizer validates raw tables into ledgers. It holds no state besides its
// logger and is safe for concurrent use.
type Normalizer struct {
	logger logging.Logger
}

// NewNormalizer creates a Normalizer. A nil logger falls back to the default adapter.
func NewNormalizer(logger logging.Logger) *Normalizer {
	return &Normalizer{
		logger: logging.OrDefault(logger).WithField(logging.FieldComponent, logging.ComponentNormalizer),
	}
}

// Normalize validates table with a logger that discards output.
func Normalize(table RawTable) (Ledger, error) {
	return NewNormalizer(logging.NewDiscardLogger()).Normalize(table)
}

// rawRow is a data row reduced to the five required cells, trimmed.
type rawRow struct {
	line        int
	date        string
	typ         string
	category    string
	description string
	amount      string
}

func (r rawRow) blank() bool {
	return r.date == "" && r.typ == "" && r.category == "" && r.description == "" && r.amount == ""
}

func (r rawRow) example() parsererror.ExampleRow {
	return parsererror.ExampleRow{
		Row:         r.line,
		Date:        r.date,
		Type:        r.typ,
		Category:    r.category,
		Description: r.description,
		Amount:      r.amount,
	}
}

// Normalize turns table into a ledger, or fails without a ledger at the first
// stage that finds a problem: missing columns, unparseable dates, invalid
// types, then unparseable amounts. Rows blank in every required column are
// dropped. The result is sorted by date, keeping input order for same-day rows.
func (n *Normalizer) Normalize(table RawTable) (Ledger, error) {
	cols, err := ResolveColumns(table.Columns)
	if err != nil {
		n.logger.WithError(err).Debug("Column resolution failed",
			logging.F(logging.FieldStage, "columns"),
			logging.F(logging.FieldColumns, table.Columns))
		return Ledger{}, err
	}

	rows := make([]rawRow, 0, len(table.Rows))
	for i := range table.Rows {
		row := rawRow{
			line:        i + 2, // header is line 1
			date:        strings.TrimSpace(table.Cell(i, cols.Date)),
			typ:         strings.TrimSpace(table.Cell(i, cols.Type)),
			category:    strings.TrimSpace(table.Cell(i, cols.Category)),
			description: strings.TrimSpace(table.Cell(i, cols.Description)),
			amount:      strings.TrimSpace(table.Cell(i, cols.Amount)),
		}
		if row.blank() {
			continue
		}
		rows = append(rows, row)
	}
	n.logger.Debug("Resolved columns and dropped blank rows",
		logging.F(logging.FieldStage, "rows"),
		logging.F(logging.FieldRows, len(rows)),
		logging.F(logging.FieldDropped, len(table.Rows)-len(rows)))

	dates, err := n.parseDates(rows)
	if err != nil {
		return Ledger{}, err
	}

	types, err := n.parseTypes(rows)
	if err != nil {
		return Ledger{}, err
	}

	amounts, err := n.parseAmounts(rows)
	if err != nil {
		return Ledger{}, err
	}

	txs := make([]Transaction, len(rows))
	for i, row := range rows {
		txs[i] = Transaction{
			date:        dates[i],
			typ:         types[i],
			category:    row.category,
			description: row.description,
			amount:      amounts[i],
		}
	}
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].date.Before(txs[j].date) })

	n.logger.Debug("Normalized ledger",
		logging.F(logging.FieldStage, "done"),
		logging.F(logging.FieldCount, len(txs)))
	return Ledger{txs: txs}, nil
}

func (n *Normalizer) parseDates(rows []rawRow) ([]time.Time, error) {
	dates := make([]time.Time, len(rows))
	var bad []parsererror.ExampleRow
	count := 0
	for i, row := range rows {
		d, err := dateutils.ParseDayFirst(row.date)
		if err != nil {
			count++
			if len(bad) < parsererror.MaxExamples {
				bad = append(bad, row.example())
			}
			continue
		}
		dates[i] = d
	}
	if count > 0 {
		err := &parsererror.UnparseableDatesError{Count: count, Examples: bad}
		n.logger.WithError(err).Debug("Date parsing failed",
			logging.F(logging.FieldStage, "dates"),
			logging.F(logging.FieldCount, count))
		return nil, err
	}
	return dates, nil
}

func (n *Normalizer) parseTypes(rows []rawRow) ([]Type, error) {
	types := make([]Type, len(rows))
	invalid := map[string]struct{}{}
	for i, row := range rows {
		t, ok := ParseType(row.typ)
		if !ok {
			invalid[strings.ToLower(row.typ)] = struct{}{}
			continue
		}
		types[i] = t
	}
	if len(invalid) > 0 {
		values := make([]string, 0, len(invalid))
		for v := range invalid {
			values = append(values, v)
		}
		sort.Strings(values)
		err := &parsererror.InvalidTypeError{Values: values}
		n.logger.WithError(err).Debug("Type mapping failed",
			logging.F(logging.FieldStage, "types"),
			logging.F(logging.FieldCount, len(values)))
		return nil, err
	}
	return types, nil
}

func (n *Normalizer) parseAmounts(rows []rawRow) ([]decimal.Decimal, error) {
	amounts := make([]decimal.Decimal, len(rows))
	var bad []parsererror.ExampleRow
	count := 0
	for i, row := range rows {
		amount, err := currencyutils.ParseAmount(row.amount)
		if err != nil {
			count++
			if len(bad) < parsererror.MaxExamples {
				bad = append(bad, row.example())
			}
			continue
		}
		amounts[i] = amount.Abs()
	}
	if count > 0 {
		err := &parsererror.UnparseableAmountsError{Count: count, Examples: bad}
		n.logger.WithError(err).Debug("Amount parsing failed",
			logging.F(logging.FieldStage, "amounts"),
			logging.F(logging.FieldCount, count))
		return nil, err
	}
	return amounts, nil
}
