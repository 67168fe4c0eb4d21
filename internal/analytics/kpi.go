package analytics

import (
	"time"

	"fjacquet/sheet-ledger/internal/dateutils"
	"fjacquet/sheet-ledger/internal/ledger"

	"github.com/shopspring/decimal"
)

// KPI is the income/expense snapshot of a set of transactions.
type KPI struct {
	Income      decimal.Decimal `json:"income" yaml:"income"`
	Expense     decimal.Decimal `json:"expense" yaml:"expense"`
	Net         decimal.Decimal `json:"net" yaml:"net"`
	SavingsRate decimal.Decimal `json:"savings_rate" yaml:"savings_rate"`
}

// ComputeKPIs totals income and expense amounts. SavingsRate is Net/Income,
// or zero when there is no income.
func ComputeKPIs(l ledger.Ledger) KPI {
	income, expense := decimal.Zero, decimal.Zero
	for i := 0; i < l.Len(); i++ {
		tx := l.At(i)
		if tx.IsIncome() {
			income = income.Add(tx.Amount())
		} else {
			expense = expense.Add(tx.Amount())
		}
	}
	return newKPI(income, expense)
}

func newKPI(income, expense decimal.Decimal) KPI {
	net := income.Sub(expense)
	rate := decimal.Zero
	if !income.IsZero() {
		rate = net.Div(income)
	}
	return KPI{Income: income, Expense: expense, Net: net, SavingsRate: rate}
}

// FilterByDate keeps transactions dated within [start, end], both inclusive.
// Only calendar dates are compared.
func FilterByDate(l ledger.Ledger, start, end time.Time) ledger.Ledger {
	return l.Filter(func(tx ledger.Transaction) bool {
		return dateutils.CompareDates(tx.Date(), start) >= 0 && dateutils.CompareDates(tx.Date(), end) <= 0
	})
}

// Comparison holds KPIs for a window and for the equal-length window right before it.
type Comparison struct {
	Current       KPI       `json:"current" yaml:"current"`
	Previous      KPI       `json:"previous" yaml:"previous"`
	Range         DateRange `json:"range" yaml:"range"`
	PreviousRange DateRange `json:"previous_range" yaml:"previous_range"`
}

// Delta is the change from the previous window to the current one.
type Delta struct {
	Income  decimal.Decimal `json:"income" yaml:"income"`
	Expense decimal.Decimal `json:"expense" yaml:"expense"`
	Net     decimal.Decimal `json:"net" yaml:"net"`
}

// Delta returns current minus previous for income, expense and net.
func (c Comparison) Delta() Delta {
	return Delta{
		Income:  c.Current.Income.Sub(c.Previous.Income),
		Expense: c.Current.Expense.Sub(c.Previous.Expense),
		Net:     c.Current.Net.Sub(c.Previous.Net),
	}
}

// ComparePeriodKPIs computes KPIs for [start, end] and for the preceding
// window of the same number of days, which ends the day before start. Calendar
// month boundaries play no role. When end precedes start both windows are
// empty and both KPIs are zero.
func ComparePeriodKPIs(l ledger.Ledger, start, end time.Time) Comparison {
	current := NewDateRange(start, end)
	previous := current.Previous()
	return Comparison{
		Current:       ComputeKPIs(FilterByDate(l, current.Start, current.End)),
		Previous:      ComputeKPIs(FilterByDate(l, previous.Start, previous.End)),
		Range:         current,
		PreviousRange: previous,
	}
}
