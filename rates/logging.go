package rates

import (
	"context"
	"time"

	"github.com/go-kit/log"

	pages "go-currency-pages"
)

// loggingService decorates a rates.Service with logging
type loggingService struct {
	next   Service
	logger log.Logger
}

// NewLoggingService return a new logging service
func NewLoggingService(logger log.Logger, s Service) Service {
	return &loggingService{
		next:   s,
		logger: logger,
	}
}

func (s *loggingService) Table(ctx context.Context, base pages.Currency) (table pages.RateTable, err error) {
	defer func(begin time.Time) {
		s.logger.Log(
			"method", "table",
			"base", base,
			"rates", len(table.Rates),
			"as_of", table.AsOf,
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Table(ctx, base)
}
