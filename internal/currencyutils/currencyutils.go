// Package currencyutils provides the amount parsing and money formatting used throughout the application.
package currencyutils

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is the ISO code ledgers are displayed in.
const DefaultCurrency = money.NGN

// glyphStripper removes currency glyphs and thousands separators. The
// "â‚¦" entry is ₦ after its UTF-8 bytes were decoded as Windows-1252,
// which is how sheet exports occasionally deliver it. It must be replaced
// before the plain glyphs.
var glyphStripper = strings.NewReplacer(
	"â‚¦", "",
	"₦", "",
	"$", "",
	"€", "",
	"£", "",
	",", "",
)

// StandardizeAmount strips currency glyphs and thousands-separator commas and
// trims the result, e.g. "₦1,200.50" -> "1200.50".
func StandardizeAmount(amountStr string) string {
	return strings.TrimSpace(glyphStripper.Replace(amountStr))
}

// ParseAmount parses a user-entered amount such as "₦1,200.50", "$ 15" or
// "-300". The sign of the literal is preserved; callers decide whether it matters.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	standardized := StandardizeAmount(amountStr)
	if standardized == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}

	return amount, nil
}

// FormatAmount renders amount in currency using go-money's display rules,
// e.g. FormatAmount(1200.5, "NGN") -> "₦1,200.50". Unknown or empty currency
// codes fall back to a plain two-decimal string.
func FormatAmount(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(strings.ToUpper(currency))
	if cur == nil {
		return amount.StringFixed(2)
	}

	factor := decimal.New(1, int32(cur.Fraction))
	minor := amount.Mul(factor).Round(0).IntPart()
	return money.New(minor, cur.Code).Display()
}

// FormatNaira renders amount in the default ledger currency.
func FormatNaira(amount decimal.Decimal) string {
	return FormatAmount(amount, DefaultCurrency)
}

// FormatSignedNaira is FormatNaira with an explicit sign on positive values,
// used for period-over-period deltas.
func FormatSignedNaira(amount decimal.Decimal) string {
	if amount.IsPositive() {
		return "+" + FormatNaira(amount)
	}
	return FormatNaira(amount)
}

// FormatPercent renders a ratio as a percentage with one decimal, e.g. 0.8 -> "80.0%".
func FormatPercent(ratio decimal.Decimal) string {
	return ratio.Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"
}
