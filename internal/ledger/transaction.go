// Package ledger turns loosely-typed spreadsheet rows into an immutable,
// date-ordered ledger of income and expense transactions.
//
// The Normalizer is the only producer of non-empty ledgers. Everything
// downstream reads transactions through accessors and never re-validates them.
package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Type is the direction of a transaction.
type Type int

const (
	// Income adds to the balance.
	Income Type = iota + 1
	// Expense subtracts from the balance.
	Expense
)

// String returns "Income" or "Expense".
func (t Type) String() string {
	switch t {
	case Income:
		return "Income"
	case Expense:
		return "Expense"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// MarshalText renders the type by name for JSON and YAML output.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// ParseType maps a raw Type cell to a Type. Matching ignores case and
// surrounding whitespace; anything but income or expense is rejected.
func ParseType(raw string) (Type, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "income":
		return Income, true
	case "expense":
		return Expense, true
	default:
		return 0, false
	}
}

// Transaction is one canonical ledger row.
type Transaction struct {
	date        time.Time
	typ         Type
	category    string
	description string
	amount      decimal.Decimal
}

// Date is the calendar date at midnight UTC.
func (t Transaction) Date() time.Time { return t.date }

// Type is Income or Expense.
func (t Transaction) Type() Type { return t.typ }

// Category is the trimmed category label, possibly empty.
func (t Transaction) Category() string { return t.category }

// Description is the trimmed description, possibly empty.
func (t Transaction) Description() string { return t.description }

// Amount is the non-negative magnitude.
func (t Transaction) Amount() decimal.Decimal { return t.amount }

// IsIncome reports whether the transaction is Income.
func (t Transaction) IsIncome() bool { return t.typ == Income }

// IsExpense reports whether the transaction is Expense.
func (t Transaction) IsExpense() bool { return t.typ == Expense }

// SignedAmount is Amount for income and -Amount for expenses.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.typ == Expense {
		return t.amount.Neg()
	}
	return t.amount
}
