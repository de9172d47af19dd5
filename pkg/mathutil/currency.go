// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/nettorechner/nettorechner/pkg/constants"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromFloat(constants.PercentageMultiplier)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Halves are rounded away from zero on the shortest decimal representation
// of the value, so 1.005 becomes 1.01.
func Round(val float64) float64 {
	return RoundDecimal(decimal.NewFromFloat(val)).InexactFloat64()
}

// RoundDecimal rounds a decimal to currency precision.
func RoundDecimal(val decimal.Decimal) decimal.Decimal {
	return val.Round(constants.DecimalPlaces)
}

// Cents converts a float amount into a decimal rounded to currency precision.
func Cents(val float64) decimal.Decimal {
	return RoundDecimal(decimal.NewFromFloat(val))
}

// IsZero checks if a value is effectively zero (within tolerance)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.CurrencyTolerance
}

// IsFinite reports whether val is neither NaN nor infinite.
func IsFinite(val float64) bool {
	return !math.IsNaN(val) && !math.IsInf(val, 0)
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// Max returns the maximum of two float64 values
func Max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// ApplyPercentage applies a percentage to a value
func ApplyPercentage(value, percentage float64) float64 {
	return value * (percentage / constants.PercentageMultiplier)
}

// ApplyPercentageDecimal applies a percentage to a decimal amount without
// rounding the product.
func ApplyPercentageDecimal(value decimal.Decimal, percentage float64) decimal.Decimal {
	return value.Mul(decimal.NewFromFloat(percentage)).Div(hundred)
}
