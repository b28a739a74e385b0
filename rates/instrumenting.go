package rates

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	pages "go-currency-pages"
)

// instrumentingService decorates a rates.Service with request metrics
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
			Subsystem: "rates",
			Name:      "requests_total",
			Help:      "Number of rate-table lookups.",
		}, []string{"method", "error"}),
		requestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pages",
			Subsystem: "rates",
			Name:      "request_duration_seconds",
			Help:      "Duration of rate-table lookups.",
		}, []string{"method"}),
		next: s,
	}
}

func (s *instrumentingService) Table(ctx context.Context, base pages.Currency) (table pages.RateTable, err error) {
	defer func(begin time.Time) {
		s.requestCount.WithLabelValues("table", strconv.FormatBool(err != nil)).Inc()
		s.requestLatency.WithLabelValues("table").Observe(time.Since(begin).Seconds())
	}(time.Now())
	return s.next.Table(ctx, base)
}
