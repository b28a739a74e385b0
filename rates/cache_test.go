package rates

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"

	pages "go-currency-pages"
)

type mock struct {
	count int32
}

func (m *mock) Table(_ context.Context, base pages.Currency) (pages.RateTable, error) {
	atomic.AddInt32(&m.count, 1)
	return pages.RateTable{Base: base, Rates: pages.Rates{}}, nil
}

func TestCachingService(t *testing.T) {
	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx) // must cancel to stop go-routine started by this test
	defer cancel()

	var underlyingService mock
	s := NewCachingService(1*time.Minute, log.NewNopLogger(), &underlyingService)

	_, _ = s.Table(ctx, "USD")
	assert.Equal(t, int32(1), atomic.LoadInt32(&underlyingService.count))

	_, _ = s.Table(ctx, "USD")
	assert.Equal(t, int32(1), atomic.LoadInt32(&underlyingService.count))
}

func TestCachingService_PeriodicRefresh(t *testing.T) {
	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx) // must cancel to stop go-routine started by this test
	defer cancel()

	var underlyingService mock
	s := NewCachingService(1*time.Millisecond, log.NewNopLogger(), &underlyingService)

	_, _ = s.Table(ctx, "USD")
	assert.GreaterOrEqual(t, atomic.LoadInt32(&underlyingService.count), int32(1))

	last := atomic.LoadInt32(&underlyingService.count)
	time.Sleep(5 * time.Millisecond)
	_, _ = s.Table(ctx, "USD")
	assert.GreaterOrEqual(t, atomic.LoadInt32(&underlyingService.count), last)
}

// Tables for different bases are cached independently.
func TestCachingService_PerBase(t *testing.T) {
	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var underlyingService mock
	s := NewCachingService(1*time.Minute, log.NewNopLogger(), &underlyingService)

	_, _ = s.Table(ctx, "USD")
	_, _ = s.Table(ctx, "EUR")
	assert.Equal(t, int32(2), atomic.LoadInt32(&underlyingService.count))

	_, _ = s.Table(ctx, "EUR")
	assert.Equal(t, int32(2), atomic.LoadInt32(&underlyingService.count))
}
