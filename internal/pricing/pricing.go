package pricing

import (
	"fmt"
	"math"

	pkgerrors "github.com/maxicoffee/storefront/pkg/errors"
	"github.com/shopspring/decimal"
)

// Prices are carried internally as int64 centavos. Float amounts only appear
// at the upstream boundary, which quotes prices in major units.

// FromMajor converts a major-unit amount (e.g. 120.50) into centavos,
// rounding half away from zero. Non-finite or negative amounts are rejected.
func FromMajor(amount float64) (int64, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, pkgerrors.New(pkgerrors.CodeInvalidAmount, fmt.Sprintf("amount %v is not a finite number", amount))
	}
	if amount < 0 {
		return 0, pkgerrors.New(pkgerrors.CodeInvalidAmount, fmt.Sprintf("amount %v is negative", amount))
	}
	cents := decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(100)).Round(0)
	if !cents.IsInteger() || !cents.BigInt().IsInt64() {
		return 0, pkgerrors.New(pkgerrors.CodeInvalidAmount, fmt.Sprintf("amount %v overflows minor units", amount))
	}
	return cents.IntPart(), nil
}

// Major converts centavos back to a major-unit float for upstream payloads.
func Major(cents int64) float64 {
	value, _ := decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).Float64()
	return value
}

// LineTotal is the price of one cart line: base price plus every addon.
func LineTotal(basePriceCents int64, addonPriceCents []int64) int64 {
	total := basePriceCents
	for _, addon := range addonPriceCents {
		total += addon
	}
	return total
}

// Subtotal sums line totals.
func Subtotal(lineTotals []int64) int64 {
	var total int64
	for _, line := range lineTotals {
		total += line
	}
	return total
}

// ApplyDiscount reduces subtotalCents by the given fraction (0.10 = 10% off),
// rounding the discounted total half up. Fractions outside [0, 1) are
// rejected so a bad upstream record can never produce a negative total.
func ApplyDiscount(subtotalCents int64, fraction float64) (int64, error) {
	if math.IsNaN(fraction) || math.IsInf(fraction, 0) || fraction < 0 || fraction >= 1 {
		return 0, pkgerrors.New(pkgerrors.CodeInvalidDiscount, fmt.Sprintf("discount fraction %v out of range", fraction))
	}
	if subtotalCents < 0 {
		return 0, pkgerrors.New(pkgerrors.CodeInvalidAmount, fmt.Sprintf("subtotal %d is negative", subtotalCents))
	}
	multiplier := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(fraction))
	discounted := decimal.NewFromInt(subtotalCents).Mul(multiplier).Round(0)
	return discounted.IntPart(), nil
}

// FormatPHP renders centavos as a peso display string, e.g. "₱140.00".
func FormatPHP(cents int64) string {
	amount := decimal.NewFromInt(cents).Div(decimal.NewFromInt(100))
	return "₱" + amount.StringFixed(2)
}
