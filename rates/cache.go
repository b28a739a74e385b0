package rates

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-kit/log"

	pages "go-currency-pages"
)

// cachingService decorates a rates.Service with a cache of rate tables.
// The cachingService is concurrency safe and will periodically refresh
// cached tables. Staleness is bounded purely by the refresh interval; there
// is no explicit invalidation, and last write for a base wins.
type cachingService struct {
	// next the service being decorated with a cache
	next Service

	// tables the cached snapshots, one per base currency
	tables map[pages.Currency]pages.RateTable

	// updateFrequency how often to refresh cached tables
	updateFrequency time.Duration

	// lock synchronizes access to tables to make it concurrency safe
	lock sync.RWMutex

	logger log.Logger
}

// NewCachingService returns a new caching Service
func NewCachingService(updateFrequency time.Duration, logger log.Logger, s Service) Service {
	return &cachingService{
		next:            s,
		tables:          map[pages.Currency]pages.RateTable{},
		updateFrequency: updateFrequency,
		lock:            sync.RWMutex{},
		logger:          logger,
	}
}

// Table looks up a rate table and caches the result
func (s *cachingService) Table(ctx context.Context, base pages.Currency) (pages.RateTable, error) {
	s.lock.RLock()
	table, ok := s.tables[base]
	s.lock.RUnlock()

	if !ok {
		// Note there is a race condition here in that multiple requests for a base that isn't yet cached
		// will result in multiple concurrent attempts to refresh. This should be harmless, unless the
		// upstream API throttles the requests. We could avoid this by holding a lock while calling and
		// waiting on the upstream API, but that is a blocking operation so I'd rather not. Recomputation
		// is cheap and whichever snapshot lands last wins. To avoid running multiple go routines to
		// periodically refresh the same base, the refreshNow function will inform of the first time the
		// base is cached.
		table, firstTime, err := s.refreshNow(ctx, base)
		if err != nil {
			return pages.RateTable{}, fmt.Errorf("refreshing cachingService [%v]: %w", base, err)
		}
		if firstTime {
			go s.refreshPeriodically(ctx, base)
		}
		return table, nil
	}

	return table, nil
}

// refreshNow refreshes a cached table immediately
func (s *cachingService) refreshNow(ctx context.Context, base pages.Currency) (pages.RateTable, bool, error) {
	table, err := s.next.Table(ctx, base)
	if err != nil {
		return pages.RateTable{}, false, fmt.Errorf("refresh [%v]: %w", base, err)
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	_, ok := s.tables[base]
	s.tables[base] = table
	return table, !ok, nil
}

// refreshPeriodically refreshes a cached table on a given schedule.
// This is expected to be called from a go-routine for each base.
func (s *cachingService) refreshPeriodically(ctx context.Context, base pages.Currency) {
	for {
		select {
		case <-time.After(s.updateFrequency):
			_, _, err := s.refreshNow(ctx, base)
			if err != nil {
				// Don't return, just log and keep serving the stale table
				s.logger.Log("msg", "periodic refresh failed", "base", base, "error", err)
			}
		case <-ctx.Done():
			s.uncache(base)
			return
		}
	}
}

// uncache safely removes a base from cachingService
func (s *cachingService) uncache(base pages.Currency) {
	s.lock.Lock()
	defer s.lock.Unlock()
	delete(s.tables, base)
}
