package analytics

import (
	"fjacquet/sheet-ledger/internal/ledger"

	"github.com/shopspring/decimal"
)

// BalanceRow is a transaction with the cumulative balance after it.
type BalanceRow struct {
	Transaction    ledger.Transaction
	RunningBalance decimal.Decimal
}

// AddRunningBalance returns one row per transaction, in ledger order, with the
// prefix sum of signed amounts up to and including that transaction.
func AddRunningBalance(l ledger.Ledger) []BalanceRow {
	rows := make([]BalanceRow, l.Len())
	balance := decimal.Zero
	for i := 0; i < l.Len(); i++ {
		tx := l.At(i)
		balance = balance.Add(tx.SignedAmount())
		rows[i] = BalanceRow{Transaction: tx, RunningBalance: balance}
	}
	return rows
}

// CurrentBalance is the final running balance, or zero for an empty ledger.
func CurrentBalance(l ledger.Ledger) decimal.Decimal {
	return SumSigned(l)
}

// SumSigned adds up the signed amounts of every transaction.
func SumSigned(l ledger.Ledger) decimal.Decimal {
	total := decimal.Zero
	for i := 0; i < l.Len(); i++ {
		total = total.Add(l.At(i).SignedAmount())
	}
	return total
}

// Balances extracts the running balance column.
func Balances(rows []BalanceRow) []decimal.Decimal {
	out := make([]decimal.Decimal, len(rows))
	for i, r := range rows {
		out[i] = r.RunningBalance
	}
	return out
}
