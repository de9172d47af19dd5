// Package format renders amounts the way German payslips show them.
package format

import (
	"math"

	"github.com/nettorechner/nettorechner/pkg/mathutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.German)

// Currency returns a euro amount with German separators (e.g., "-1.234,56 €").
func Currency(amount float64) string {
	return NumericCurrency(amount) + " €"
}

// NumericCurrency returns an amount without a currency symbol but with German
// separators (e.g., "-1.234,56").
func NumericCurrency(amount float64) string {
	rounded := mathutil.Round(amount)
	sign := ""
	if rounded < 0 {
		sign = "-"
	}
	return sign + printer.Sprintf("%.2f", math.Abs(rounded))
}

// Percent renders a rate in percent with up to three decimals (e.g., "1,875 %").
func Percent(rate float64) string {
	return printer.Sprint(math.Round(rate*1000)/1000) + " %"
}
