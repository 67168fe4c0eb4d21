// Package analytics computes balances, KPIs, monthly rollups, category
// breakdowns and period comparisons over a normalized ledger.
//
// Every function is pure: inputs are never modified and empty input yields
// empty, non-nil results. Ledgers are immutable, so calls may run concurrently.
package analytics
