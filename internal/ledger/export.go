package ledger

import (
	"encoding/csv"
	"fmt"
	"io"

	"fjacquet/sheet-ledger/internal/dateutils"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// exportRow is the CSV shape of a transaction. Dates are written day-first so
// an export reads back into the same ledger.
type exportRow struct {
	Date         string `csv:"Date"`
	Type         string `csv:"Type"`
	Category     string `csv:"Category"`
	Description  string `csv:"Description"`
	Amount       string `csv:"Amount"`
	SignedAmount string `csv:"SignedAmount"`
}

type balanceExportRow struct {
	Date           string `csv:"Date"`
	Type           string `csv:"Type"`
	Category       string `csv:"Category"`
	Description    string `csv:"Description"`
	Amount         string `csv:"Amount"`
	SignedAmount   string `csv:"SignedAmount"`
	RunningBalance string `csv:"RunningBalance"`
}

func toExportRow(tx Transaction) exportRow {
	return exportRow{
		Date:         dateutils.FormatDayFirst(tx.date),
		Type:         tx.typ.String(),
		Category:     tx.category,
		Description:  tx.description,
		Amount:       tx.amount.String(),
		SignedAmount: tx.SignedAmount().String(),
	}
}

// WriteCSV writes the ledger's canonical fields plus SignedAmount.
func WriteCSV(w io.Writer, l Ledger, delimiter rune) error {
	rows := make([]exportRow, len(l.txs))
	for i, tx := range l.txs {
		rows[i] = toExportRow(tx)
	}
	return marshal(w, rows, delimiter)
}

// WriteCSVWithBalance is WriteCSV with a RunningBalance column. balances must
// hold one value per transaction.
func WriteCSVWithBalance(w io.Writer, l Ledger, balances []decimal.Decimal, delimiter rune) error {
	if len(balances) != len(l.txs) {
		return fmt.Errorf("export: %d balances for %d transactions", len(balances), len(l.txs))
	}
	rows := make([]balanceExportRow, len(l.txs))
	for i, tx := range l.txs {
		r := toExportRow(tx)
		rows[i] = balanceExportRow{
			Date:           r.Date,
			Type:           r.Type,
			Category:       r.Category,
			Description:    r.Description,
			Amount:         r.Amount,
			SignedAmount:   r.SignedAmount,
			RunningBalance: balances[i].String(),
		}
	}
	return marshal(w, rows, delimiter)
}

func marshal(w io.Writer, rows interface{}, delimiter rune) error {
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = delimiter
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// Table renders the ledger back into a raw table with canonical headers.
func (l Ledger) Table() RawTable {
	table := RawTable{
		Columns: append([]string(nil), RequiredColumns...),
		Rows:    make([][]string, len(l.txs)),
	}
	for i, tx := range l.txs {
		table.Rows[i] = []string{
			dateutils.FormatDayFirst(tx.date),
			tx.typ.String(),
			tx.category,
			tx.description,
			tx.amount.String(),
		}
	}
	return table
}
