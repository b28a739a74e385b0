package exchange

import (
	"context"
	"fmt"
	"time"

	pages "go-currency-pages"
	"go-currency-pages/rates"
)

// Quote is a fully computed conversion for one request.
type Quote struct {
	From      pages.Currency
	To        pages.Currency
	Amount    pages.Amount
	Rate      pages.Rate
	Converted pages.Amount
	AsOf      time.Time
}

// Service computes conversion quotes between two currencies.
type Service interface {
	Quote(ctx context.Context, from, to pages.Currency, amount pages.Amount) (Quote, error)
}

// service derives every pair from one base table via cross-rates.
type service struct {
	// rates provides the base currency's rate table
	rates rates.Service

	// base the canonical base currency; one table serves all pairs
	base pages.Currency
}

// NewService constructs a valid Service
func NewService(r rates.Service, base pages.Currency) Service {
	return &service{
		rates: r,
		base:  base,
	}
}

// Quote resolves the cross-rate for a pair and applies it to amount.
// Validation happens before the table fetch so bad input never reaches the
// rate store.
func (s *service) Quote(ctx context.Context, from, to pages.Currency, amount pages.Amount) (Quote, error) {
	if amount <= 0 {
		return Quote{}, fmt.Errorf("amount %v must be positive: %w", amount, pages.ErrInvalidInput)
	}

	table, err := s.rates.Table(ctx, s.base)
	if err != nil {
		return Quote{}, fmt.Errorf("quote %v->%v: %w", from, to, err)
	}

	rate, err := Resolve(table, from, to)
	if err != nil {
		return Quote{}, fmt.Errorf("quote %v->%v: %w", from, to, err)
	}

	conversion := Convert(rate, amount)

	return Quote{
		From:      from,
		To:        to,
		Amount:    amount,
		Rate:      conversion.Rate,
		Converted: conversion.Amount,
		AsOf:      table.AsOf,
	}, nil
}
