// Package report assembles the dashboard snapshot of a ledger and renders it
// for the CLI and the HTTP surface.
package report

import (
	"context"
	"fmt"
	"time"

	"fjacquet/sheet-ledger/internal/analytics"
	"fjacquet/sheet-ledger/internal/dateutils"
	"fjacquet/sheet-ledger/internal/ledger"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Query selects the window and filters a dashboard is built for. Start and
// End override the preset's window when set.
type Query struct {
	Preset   analytics.Preset
	Start    *time.Time
	End      *time.Time
	Filter   analytics.Filter
	TopLimit int
	Today    time.Time
}

// Window resolves the query's date range against the ledger's bounds.
func (q Query) Window(full ledger.Ledger) (analytics.DateRange, error) {
	today := q.Today
	if today.IsZero() {
		today = time.Now()
	}
	preset := q.Preset
	if preset == "" {
		preset = analytics.PresetThisMonth
	}

	r, err := analytics.ResolvePreset(preset, today, analytics.LedgerBounds(full, today))
	if err != nil {
		return analytics.DateRange{}, err
	}
	if q.Start != nil {
		r.Start = dateutils.Truncate(*q.Start)
	}
	if q.End != nil {
		r.End = dateutils.Truncate(*q.End)
	}
	if err := r.Validate(); err != nil {
		return analytics.DateRange{}, err
	}
	return r, nil
}

// TransactionRow is a transaction as presented to readers.
type TransactionRow struct {
	Date           string           `json:"date" yaml:"date"`
	Type           ledger.Type      `json:"type" yaml:"type"`
	Category       string           `json:"category" yaml:"category"`
	Description    string           `json:"description" yaml:"description"`
	Amount         decimal.Decimal  `json:"amount" yaml:"amount"`
	SignedAmount   decimal.Decimal  `json:"signed_amount" yaml:"signed_amount"`
	RunningBalance *decimal.Decimal `json:"running_balance,omitempty" yaml:"running_balance,omitempty"`

	day time.Time
}

func newTransactionRow(tx ledger.Transaction) TransactionRow {
	return TransactionRow{
		Date:         dateutils.ToISODate(tx.Date()),
		Type:         tx.Type(),
		Category:     tx.Category(),
		Description:  tx.Description(),
		Amount:       tx.Amount(),
		SignedAmount: tx.SignedAmount(),
		day:          tx.Date(),
	}
}

// BalancePoint is the all-time running balance after one transaction.
type BalancePoint struct {
	Date    string          `json:"date" yaml:"date"`
	Balance decimal.Decimal `json:"balance" yaml:"balance"`
}

// FilterSummary echoes the filters a dashboard was built with.
type FilterSummary struct {
	Types      []string `json:"types" yaml:"types"`
	Categories []string `json:"categories" yaml:"categories"`
	Search     string   `json:"search,omitempty" yaml:"search,omitempty"`
}

// Dashboard is a complete snapshot: all-time figures over the full ledger
// and selected figures over the filtered window.
type Dashboard struct {
	GeneratedAt   time.Time               `json:"generated_at" yaml:"generated_at"`
	LastRefreshed time.Time               `json:"last_refreshed,omitempty" yaml:"last_refreshed,omitempty"`
	Preset        analytics.Preset        `json:"preset" yaml:"preset"`
	Range         analytics.DateRange     `json:"range" yaml:"range"`
	Filter        FilterSummary           `json:"filter" yaml:"filter"`
	LedgerSize    int                     `json:"ledger_size" yaml:"ledger_size"`
	SelectedCount int                     `json:"selected_count" yaml:"selected_count"`
	Categories    []string                `json:"categories" yaml:"categories"`
	Summary       Summary                 `json:"summary" yaml:"summary"`
	Monthly       []analytics.MonthlyRow  `json:"monthly" yaml:"monthly"`
	Expenses      []analytics.CategoryRow `json:"expense_by_category" yaml:"expense_by_category"`
	TopExpenses   []TransactionRow        `json:"top_expenses" yaml:"top_expenses"`
	Transactions  []TransactionRow        `json:"transactions" yaml:"transactions"`
	Balance       []BalancePoint          `json:"balance_history" yaml:"balance_history"`
}

// Summary holds the headline figures. Delta is the selected KPIs minus the
// KPIs of the previous window.
type Summary struct {
	CurrentBalance decimal.Decimal      `json:"current_balance" yaml:"current_balance"`
	Selected       analytics.KPI        `json:"selected" yaml:"selected"`
	AllTime        analytics.KPI        `json:"all_time" yaml:"all_time"`
	Comparison     analytics.Comparison `json:"comparison" yaml:"comparison"`
	Delta          analytics.Delta      `json:"delta" yaml:"delta"`
}

// Selection is the part of a ledger a query selects, with each selected
// transaction's running balance over the full ledger.
type Selection struct {
	Range    analytics.DateRange
	Ledger   ledger.Ledger
	Balances []decimal.Decimal
}

// Select applies q's window and filters to full.
func Select(full ledger.Ledger, q Query) (Selection, error) {
	window, err := q.Window(full)
	if err != nil {
		return Selection{}, err
	}

	matches := q.Filter.Matcher()
	keep := func(tx ledger.Transaction) bool {
		return matches(tx) && window.Contains(tx.Date())
	}

	var balances []decimal.Decimal
	for _, r := range analytics.AddRunningBalance(full) {
		if keep(r.Transaction) {
			balances = append(balances, r.RunningBalance)
		}
	}
	selected := full.Filter(keep)
	if balances == nil {
		balances = []decimal.Decimal{}
	}

	return Selection{Range: window, Ledger: selected, Balances: balances}, nil
}

// Build computes the dashboard for full under q. Running balances and the
// period comparison use the full ledger; everything else uses the selection.
func Build(ctx context.Context, full ledger.Ledger, q Query) (*Dashboard, error) {
	sel, err := Select(full, q)
	if err != nil {
		return nil, err
	}
	window, selected := sel.Range, sel.Ledger

	preset := q.Preset
	if preset == "" {
		preset = analytics.PresetThisMonth
	}

	d := &Dashboard{
		GeneratedAt:   time.Now(),
		Preset:        preset,
		Range:         window,
		Filter:        summarizeFilter(q.Filter),
		LedgerSize:    full.Len(),
		SelectedCount: selected.Len(),
		Categories:    full.Categories(),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		d.Summary.CurrentBalance = analytics.CurrentBalance(full)
		d.Summary.AllTime = analytics.ComputeKPIs(full)
		return nil
	})

	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		d.Summary.Selected = analytics.ComputeKPIs(selected)
		d.Summary.Comparison = analytics.ComparePeriodKPIs(full, window.Start, window.End)
		d.Summary.Delta = analytics.Comparison{
			Current:  d.Summary.Selected,
			Previous: d.Summary.Comparison.Previous,
		}.Delta()
		return nil
	})

	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		d.Monthly = analytics.MonthlySummary(selected)
		d.Expenses = analytics.ExpenseByCategory(selected)
		return nil
	})

	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		top := analytics.TopExpenses(selected, q.topLimit())
		d.TopExpenses = make([]TransactionRow, top.Len())
		for i := 0; i < top.Len(); i++ {
			d.TopExpenses[i] = newTransactionRow(top.At(i))
		}
		return nil
	})

	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		d.Transactions = make([]TransactionRow, selected.Len())
		for i := 0; i < selected.Len(); i++ {
			row := newTransactionRow(selected.At(i))
			balance := sel.Balances[i]
			row.RunningBalance = &balance
			d.Transactions[i] = row
		}
		return nil
	})

	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		rows := analytics.AddRunningBalance(full)
		d.Balance = make([]BalancePoint, len(rows))
		for i, r := range rows {
			d.Balance[i] = BalancePoint{Date: dateutils.ToISODate(r.Transaction.Date()), Balance: r.RunningBalance}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}
	return d, nil
}

func (q Query) topLimit() int {
	if q.TopLimit == 0 {
		return analytics.DefaultTopExpenses
	}
	return q.TopLimit
}

func summarizeFilter(f analytics.Filter) FilterSummary {
	s := FilterSummary{
		Types:      make([]string, len(f.Types)),
		Categories: append([]string{}, f.Categories...),
		Search:     f.Search,
	}
	for i, t := range f.Types {
		s.Types[i] = t.String()
	}
	return s
}
