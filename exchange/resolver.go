package exchange

import (
	"fmt"
	"math"

	pages "go-currency-pages"
)

// Resolve derives the rate between two arbitrary currencies from a
// one-directional rate table via the shared base. It is pure: no I/O, no
// state, same inputs always produce the same rate.
func Resolve(table pages.RateTable, from, to pages.Currency) (pages.Rate, error) {
	// Identity conversions never touch the table; the base itself is not a
	// key of its own rates map.
	if from == to {
		return 1, nil
	}

	num, den := 1.0, 1.0
	if to != table.Base {
		r, ok := table.Rates[to]
		if !ok {
			return 0, fmt.Errorf("no rate for %v in %v table: %w", to, table.Base, pages.ErrRateNotFound)
		}
		num = float64(r)
	}
	if from != table.Base {
		r, ok := table.Rates[from]
		if !ok {
			return 0, fmt.Errorf("no rate for %v in %v table: %w", from, table.Base, pages.ErrRateNotFound)
		}
		den = float64(r)
	}

	rate := num / den
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 {
		return 0, fmt.Errorf("unusable rate %v for %v->%v: %w", rate, from, to, pages.ErrRateNotFound)
	}
	return pages.Rate(rate), nil
}
