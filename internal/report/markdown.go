package report

import (
	"fmt"
	"strings"

	"fjacquet/sheet-ledger/internal/currencyutils"
	"fjacquet/sheet-ledger/internal/dateutils"
)

const (
	noTransactionsMsg = "No transactions match your filters. Adjust filters (date, category, type) to see results."
	noExpensesMsg     = "No expenses in the selected filters."
)

func renderMarkdown(d *Dashboard, section Section) ([]byte, error) {
	var b strings.Builder

	switch section {
	case SectionAll, "":
		writeHeader(&b, d)
		writeSummary(&b, d)
		writeMonthly(&b, d)
		writeCategories(&b, d)
		writeTop(&b, d)
		writeTransactions(&b, d)
	case SectionSummary:
		writeHeader(&b, d)
		writeSummary(&b, d)
	case SectionMonthly:
		writeMonthly(&b, d)
	case SectionCategories:
		writeCategories(&b, d)
	case SectionTop:
		writeTop(&b, d)
	case SectionTransactions:
		writeTransactions(&b, d)
	default:
		return nil, fmt.Errorf("unknown report section: %s", section)
	}

	return []byte(b.String()), nil
}

func writeHeader(b *strings.Builder, d *Dashboard) {
	b.WriteString("# Personal Finance Dashboard\n\n")
	fmt.Fprintf(b, "Range: %s (%s). Selected %d of %d transactions.\n",
		d.Range, d.Preset, d.SelectedCount, d.LedgerSize)
	if !d.LastRefreshed.IsZero() {
		fmt.Fprintf(b, "Last refreshed: %s\n", d.LastRefreshed.Format("02-01-2006 15:04:05"))
	}
	b.WriteString("\n")
}

func writeSummary(b *strings.Builder, d *Dashboard) {
	s := d.Summary
	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Value | Change vs previous period |\n")
	b.WriteString("|---|---:|---:|\n")
	fmt.Fprintf(b, "| Current balance (all time) | %s | |\n", currencyutils.FormatNaira(s.CurrentBalance))
	fmt.Fprintf(b, "| Income (selected) | %s | %s |\n",
		currencyutils.FormatNaira(s.Selected.Income), currencyutils.FormatSignedNaira(s.Delta.Income))
	fmt.Fprintf(b, "| Expense (selected) | %s | %s |\n",
		currencyutils.FormatNaira(s.Selected.Expense), currencyutils.FormatSignedNaira(s.Delta.Expense))
	fmt.Fprintf(b, "| Net (selected) | %s | %s |\n",
		currencyutils.FormatNaira(s.Selected.Net), currencyutils.FormatSignedNaira(s.Delta.Net))
	fmt.Fprintf(b, "| Savings rate (selected) | %s | |\n", currencyutils.FormatPercent(s.Selected.SavingsRate))
	fmt.Fprintf(b, "| Income (all time) | %s | |\n", currencyutils.FormatNaira(s.AllTime.Income))
	fmt.Fprintf(b, "| Expense (all time) | %s | |\n", currencyutils.FormatNaira(s.AllTime.Expense))
	fmt.Fprintf(b, "\nPrevious period: %s\n\n", s.Comparison.PreviousRange)
}

func writeMonthly(b *strings.Builder, d *Dashboard) {
	b.WriteString("## Monthly summary\n\n")
	if len(d.Monthly) == 0 {
		b.WriteString(noTransactionsMsg + "\n\n")
		return
	}
	b.WriteString("| Month | Income | Expense | Net |\n")
	b.WriteString("|---|---:|---:|---:|\n")
	for _, m := range d.Monthly {
		fmt.Fprintf(b, "| %s | %s | %s | %s |\n",
			m.Month.Format(dateutils.DateLayoutMonth),
			currencyutils.FormatNaira(m.Income),
			currencyutils.FormatNaira(m.Expense),
			currencyutils.FormatNaira(m.Net))
	}
	b.WriteString("\n")
}

func writeCategories(b *strings.Builder, d *Dashboard) {
	b.WriteString("## Expense totals by category\n\n")
	if len(d.Expenses) == 0 {
		b.WriteString(noExpensesMsg + "\n\n")
		return
	}
	b.WriteString("| Category | Amount |\n")
	b.WriteString("|---|---:|\n")
	for _, c := range d.Expenses {
		fmt.Fprintf(b, "| %s | %s |\n", escapeCell(c.Category), currencyutils.FormatNaira(c.Amount))
	}
	b.WriteString("\n")
}

func writeTop(b *strings.Builder, d *Dashboard) {
	b.WriteString("## Top expenses\n\n")
	if len(d.TopExpenses) == 0 {
		b.WriteString(noExpensesMsg + "\n\n")
		return
	}
	b.WriteString("| Date | Category | Description | Amount |\n")
	b.WriteString("|---|---|---|---:|\n")
	for _, r := range d.TopExpenses {
		fmt.Fprintf(b, "| %s | %s | %s | %s |\n",
			dateutils.FormatDayFirst(r.day), escapeCell(r.Category), escapeCell(r.Description),
			currencyutils.FormatNaira(r.Amount))
	}
	b.WriteString("\n")
}

func writeTransactions(b *strings.Builder, d *Dashboard) {
	b.WriteString("## Transactions\n\n")
	if len(d.Transactions) == 0 {
		b.WriteString(noTransactionsMsg + "\n\n")
		return
	}
	b.WriteString("| Date | Type | Category | Description | Amount | Signed amount | Running balance |\n")
	b.WriteString("|---|---|---|---|---:|---:|---:|\n")
	for _, r := range d.Transactions {
		balance := ""
		if r.RunningBalance != nil {
			balance = currencyutils.FormatNaira(*r.RunningBalance)
		}
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			dateutils.FormatDayFirst(r.day), r.Type, escapeCell(r.Category), escapeCell(r.Description),
			currencyutils.FormatNaira(r.Amount), currencyutils.FormatNaira(r.SignedAmount), balance)
	}
	b.WriteString("\n")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
