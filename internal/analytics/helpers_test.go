package analytics

import (
	"testing"

	"fjacquet/sheet-ledger/internal/ledger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// buildLedger normalizes rows of Date, Type, Category, Description, Amount.
func buildLedger(t *testing.T, rows ...[]string) ledger.Ledger {
	t.Helper()
	l, err := ledger.Normalize(ledger.RawTable{Columns: ledger.RequiredColumns, Rows: rows})
	require.NoError(t, err)
	return l
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	require.True(t, dec(expected).Equal(actual), append([]interface{}{"expected %s, got %s", expected, actual.String()}, msgAndArgs...)...)
}
