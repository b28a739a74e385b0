package exchange

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	pages "go-currency-pages"
)

// instrumentingService decorates an exchange.Service with request metrics
type instrumentingService struct {
	requestCount   *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	next           Service
}

// NewInstrumentingService returns a Service instrumented with Prometheus
// counters and latency histograms. Register at most once per process.
func NewInstrumentingService(s Service) Service {
	return &instrumentingService{
		requestCount: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pages",
			Subsystem: "exchange",
			Name:      "requests_total",
			Help:      "Number of quote requests.",
		}, []string{"method", "error"}),
		requestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pages",
			Subsystem: "exchange",
			Name:      "request_duration_seconds",
			Help:      "Duration of quote requests.",
		}, []string{"method"}),
		next: s,
	}
}

func (s *instrumentingService) Quote(ctx context.Context, from, to pages.Currency, amount pages.Amount) (q Quote, err error) {
	defer func(begin time.Time) {
		s.requestCount.WithLabelValues("quote", strconv.FormatBool(err != nil)).Inc()
		s.requestLatency.WithLabelValues("quote").Observe(time.Since(begin).Seconds())
	}(time.Now())
	return s.next.Quote(ctx, from, to, amount)
}
