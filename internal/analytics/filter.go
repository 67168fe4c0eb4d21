package analytics

import (
	"strings"

	"fjacquet/sheet-ledger/internal/ledger"
)

// Filter narrows a ledger the way a reader does interactively. Empty
// allow-lists place no restriction; Search matches descriptions as a
// case-insensitive substring.
type Filter struct {
	Types      []ledger.Type
	Categories []string
	Search     string
}

// IsZero reports whether the filter keeps every transaction.
func (f Filter) IsZero() bool {
	return len(f.Types) == 0 && len(f.Categories) == 0 && strings.TrimSpace(f.Search) == ""
}

// Apply returns the matching transactions in ledger order.
func (f Filter) Apply(l ledger.Ledger) ledger.Ledger {
	if f.IsZero() {
		return l
	}
	return l.Filter(f.Matcher())
}

// Matcher compiles the filter into a predicate.
func (f Filter) Matcher() func(ledger.Transaction) bool {
	types := make(map[ledger.Type]bool, len(f.Types))
	for _, t := range f.Types {
		types[t] = true
	}
	categories := make(map[string]bool, len(f.Categories))
	for _, c := range f.Categories {
		categories[strings.TrimSpace(c)] = true
	}
	search := strings.ToLower(strings.TrimSpace(f.Search))

	return func(tx ledger.Transaction) bool {
		if len(types) > 0 && !types[tx.Type()] {
			return false
		}
		if len(categories) > 0 && !categories[tx.Category()] {
			return false
		}
		if search != "" && !strings.Contains(strings.ToLower(tx.Description()), search) {
			return false
		}
		return true
	}
}
