package exchange

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	pages "go-currency-pages"
)

// Convert applies a resolved rate to an amount. The converted amount is
// rounded half away from zero to two decimal places; the raw rate is kept
// alongside so client-side recomputation at a different amount does not
// compound rounding error.
func Convert(rate pages.Rate, amount pages.Amount) pages.Conversion {
	product := decimal.NewFromFloat(float64(amount)).Mul(decimal.NewFromFloat(float64(rate)))
	rounded, _ := product.Round(2).Float64()
	return pages.Conversion{
		Rate:   rate,
		Amount: pages.Amount(rounded),
	}
}

var display = message.NewPrinter(language.English)

// FormatAmount renders an amount for display with thousands separators and
// fixed two decimals. Presentation only; never feed the result back into
// arithmetic.
func FormatAmount(a pages.Amount) string {
	return display.Sprintf("%.2f", float64(a))
}
