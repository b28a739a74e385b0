package exchange

import (
	"context"
	"time"

	"github.com/go-kit/log"

	pages "go-currency-pages"
)

// loggingService decorates an exchange.Service with logging
type loggingService struct {
	logger log.Logger
	next   Service
}

// NewLoggingService returns a new instance of a logging Service
func NewLoggingService(logger log.Logger, s Service) Service {
	return &loggingService{
		next:   s,
		logger: logger,
	}
}

func (s *loggingService) Quote(ctx context.Context, from, to pages.Currency, amount pages.Amount) (q Quote, err error) {
	defer func(begin time.Time) {
		s.logger.Log(
			"method", "quote",
			"from", from,
			"to", to,
			"amount", amount,
			"rate", q.Rate,
			"converted_amount", q.Converted,
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Quote(ctx, from, to, amount)
}
