package pages

import (
	"errors"
	"fmt"
	"time"
)

// Currency a 3-letter uppercase currency code
type Currency string

// Amount a monetary amount... which should be a float...
type Amount float64

// Rate an exchange rate
type Rate float64

// Rates maps currency codes to rates against a base currency
type Rates map[Currency]Rate

// RateTable is a snapshot of one base currency's rates against many quote
// currencies. The base is never a key of its own rates map; it is implicit
// as 1.0. A table is immutable once handed to the render pipeline.
type RateTable struct {
	Base  Currency
	AsOf  time.Time
	Rates Rates
}

// Conversion is the result of applying a resolved rate to an amount.
type Conversion struct {
	Rate   Rate
	Amount Amount
}

// Error taxonomy for the render pipeline. The HTTP transport maps these to
// status codes with errors.Is; everything else is an internal error.
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrRateNotFound        = errors.New("rate not found")
	ErrTemplateUnavailable = errors.New("template unavailable")
	ErrUpstreamUnavailable = errors.New("exchange rates not available")
)

// ParseCurrency validates the 3-letter shape of a currency code and
// normalizes it to uppercase. Codes are never trusted unvalidated beyond
// input parsing.
func ParseCurrency(s string) (Currency, error) {
	if len(s) != 3 {
		return "", fmt.Errorf("currency code %q: %w", s, ErrInvalidInput)
	}
	code := make([]byte, 3)
	for i := 0; i < 3; i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z':
			code[i] = c
		case c >= 'a' && c <= 'z':
			code[i] = c - ('a' - 'A')
		default:
			return "", fmt.Errorf("currency code %q: %w", s, ErrInvalidInput)
		}
	}
	return Currency(code), nil
}
