package ledger

import (
	"slices"
	"sort"
	"time"
)

// Ledger is an immutable ordered sequence of transactions. The zero value is
// the empty ledger. Ledgers produced by the Normalizer are sorted by date with
// input order kept among same-day rows; views derived through SortStable keep
// whatever order they were given.
type Ledger struct {
	txs []Transaction
}

// Len returns the number of transactions.
func (l Ledger) Len() int { return len(l.txs) }

// IsEmpty reports whether the ledger has no transactions.
func (l Ledger) IsEmpty() bool { return len(l.txs) == 0 }

// At returns the i-th transaction. It panics when i is out of range, like a slice index.
func (l Ledger) At(i int) Transaction { return l.txs[i] }

// Transactions returns a copy of the transactions, never nil.
func (l Ledger) Transactions() []Transaction {
	out := make([]Transaction, len(l.txs))
	copy(out, l.txs)
	return out
}

// Filter returns the transactions for which keep returns true, in ledger order.
func (l Ledger) Filter(keep func(Transaction) bool) Ledger {
	out := make([]Transaction, 0, len(l.txs))
	for _, tx := range l.txs {
		if keep(tx) {
			out = append(out, tx)
		}
	}
	return Ledger{txs: out}
}

// SortStable returns a copy ordered by less, keeping ledger order among equal elements.
func (l Ledger) SortStable(less func(a, b Transaction) bool) Ledger {
	out := l.Transactions()
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return Ledger{txs: out}
}

// Head returns the first n transactions, or all of them when fewer exist.
func (l Ledger) Head(n int) Ledger {
	if n <= 0 {
		return Ledger{txs: []Transaction{}}
	}
	if n > len(l.txs) {
		n = len(l.txs)
	}
	return Ledger{txs: l.txs[:n:n]}
}

// Bounds returns the earliest and latest transaction dates. ok is false for an empty ledger.
func (l Ledger) Bounds() (first, last time.Time, ok bool) {
	if len(l.txs) == 0 {
		return time.Time{}, time.Time{}, false
	}
	first, last = l.txs[0].date, l.txs[0].date
	for _, tx := range l.txs[1:] {
		if tx.date.Before(first) {
			first = tx.date
		}
		if tx.date.After(last) {
			last = tx.date
		}
	}
	return first, last, true
}

// Categories returns the distinct categories in ascending order, including "" when present.
func (l Ledger) Categories() []string {
	seen := make(map[string]struct{}, len(l.txs))
	out := []string{}
	for _, tx := range l.txs {
		if _, ok := seen[tx.category]; ok {
			continue
		}
		seen[tx.category] = struct{}{}
		out = append(out, tx.category)
	}
	slices.Sort(out)
	return out
}
