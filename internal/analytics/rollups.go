package analytics

import (
	"sort"
	"time"

	"fjacquet/sheet-ledger/internal/dateutils"
	"fjacquet/sheet-ledger/internal/ledger"

	"github.com/shopspring/decimal"
)

// DefaultTopExpenses is the number of rows shown by default in a top-expenses list.
const DefaultTopExpenses = 10

// MonthlyRow totals one calendar month.
type MonthlyRow struct {
	Month   time.Time       `json:"month" yaml:"month"`
	Income  decimal.Decimal `json:"income" yaml:"income"`
	Expense decimal.Decimal `json:"expense" yaml:"expense"`
	Net     decimal.Decimal `json:"net" yaml:"net"`
}

// MonthlySummary buckets transactions by the first day of their month and
// returns one row per month present, ascending. Months without income or
// without expenses report zero for that side.
func MonthlySummary(l ledger.Ledger) []MonthlyRow {
	buckets := map[time.Time]*MonthlyRow{}
	for i := 0; i < l.Len(); i++ {
		tx := l.At(i)
		month := dateutils.StartOfMonth(tx.Date())
		row, ok := buckets[month]
		if !ok {
			row = &MonthlyRow{Month: month, Income: decimal.Zero, Expense: decimal.Zero}
			buckets[month] = row
		}
		if tx.IsIncome() {
			row.Income = row.Income.Add(tx.Amount())
		} else {
			row.Expense = row.Expense.Add(tx.Amount())
		}
	}

	rows := make([]MonthlyRow, 0, len(buckets))
	for _, row := range buckets {
		row.Net = row.Income.Sub(row.Expense)
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Month.Before(rows[j].Month) })
	return rows
}

// CategoryRow is the expense total of one category.
type CategoryRow struct {
	Category string          `json:"category" yaml:"category"`
	Amount   decimal.Decimal `json:"amount" yaml:"amount"`
}

// ExpenseByCategory sums expense amounts per category, largest first. Equal
// totals are ordered by category name.
func ExpenseByCategory(l ledger.Ledger) []CategoryRow {
	totals := map[string]decimal.Decimal{}
	for i := 0; i < l.Len(); i++ {
		tx := l.At(i)
		if !tx.IsExpense() {
			continue
		}
		if sum, ok := totals[tx.Category()]; ok {
			totals[tx.Category()] = sum.Add(tx.Amount())
		} else {
			totals[tx.Category()] = tx.Amount()
		}
	}

	rows := make([]CategoryRow, 0, len(totals))
	for category, amount := range totals {
		rows = append(rows, CategoryRow{Category: category, Amount: amount})
	}
	sort.Slice(rows, func(i, j int) bool {
		if c := rows[i].Amount.Cmp(rows[j].Amount); c != 0 {
			return c > 0
		}
		return rows[i].Category < rows[j].Category
	})
	return rows
}

// TopExpenses returns up to limit expenses by amount, largest first. Equal
// amounts keep ledger order. A limit of zero or less returns nothing.
func TopExpenses(l ledger.Ledger, limit int) ledger.Ledger {
	if limit <= 0 {
		return ledger.Ledger{}.Head(0)
	}
	return l.Filter(ledger.Transaction.IsExpense).
		SortStable(func(a, b ledger.Transaction) bool {
			return a.Amount().GreaterThan(b.Amount())
		}).
		Head(limit)
}
