package geoip

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"signup/internal/geoip/metrics"
)

type stubProvider struct {
	calls atomic.Int32
	delay time.Duration
	loc   *Location
	err   error
}

func (p *stubProvider) ID() string { return "stub" }

func (p *stubProvider) Locate(_ context.Context, ip string) (*Location, error) {
	p.calls.Add(1)
	time.Sleep(p.delay)
	if p.err != nil {
		return nil, p.err
	}
	loc := *p.loc
	loc.IP = ip
	return &loc, nil
}

type CachedProviderSuite struct {
	suite.Suite
	inner   *stubProvider
	cache   *MemoryCache
	metrics *metrics.Metrics
	cached  *CachedProvider
}

func TestCachedProviderSuite(t *testing.T) {
	suite.Run(t, new(CachedProviderSuite))
}

func (s *CachedProviderSuite) SetupTest() {
	s.inner = &stubProvider{loc: &Location{CountryCode: "BD"}}
	s.cache = NewMemoryCache()
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.cached = NewCachedProvider(s.inner, s.cache, time.Hour, WithMetrics(s.metrics))
}

func (s *CachedProviderSuite) TestRepeatLookupsHitCache() {
	ctx := context.Background()
	for range 3 {
		loc, err := s.cached.Locate(ctx, "203.0.113.7")
		s.Require().NoError(err)
		s.Equal("BD", loc.CountryCode)
	}
	s.Equal(int32(1), s.inner.calls.Load())
	s.Equal(2.0, testutil.ToFloat64(s.metrics.CacheHits))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Lookups.WithLabelValues("ok")))
}

func (s *CachedProviderSuite) TestExpiredEntriesAreRefetched() {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.cache.now = func() time.Time { return now }
	ctx := context.Background()

	_, err := s.cached.Locate(ctx, "203.0.113.7")
	s.Require().NoError(err)
	now = now.Add(2 * time.Hour)
	_, err = s.cached.Locate(ctx, "203.0.113.7")
	s.Require().NoError(err)

	s.Equal(int32(2), s.inner.calls.Load())
}

func (s *CachedProviderSuite) TestMemoryCacheCleanup() {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.cache.now = func() time.Time { return now }
	ctx := context.Background()

	s.Require().NoError(s.cache.Set(ctx, "203.0.113.1", &Location{CountryCode: "BD"}, time.Minute))
	s.Require().NoError(s.cache.Set(ctx, "203.0.113.2", &Location{CountryCode: "FR"}, time.Hour))

	s.Equal(1, s.cache.RemoveExpiredAt(now.Add(2*time.Minute)))
	s.Len(s.cache.entries, 1)
	_, ok, err := s.cache.Get(ctx, "203.0.113.2")
	s.NoError(err)
	s.True(ok)

	s.Run("background cleanup stops with its context", func() {
		s.Require().NoError(s.cache.Set(ctx, "203.0.113.3", &Location{CountryCode: "US"}, time.Minute))
		now = now.Add(3 * time.Hour)

		cctx, cancel := context.WithCancel(ctx)
		done := make(chan error, 1)
		go func() { done <- s.cache.StartCleanup(cctx, time.Millisecond) }()
		s.Eventually(func() bool {
			s.cache.mu.Lock()
			defer s.cache.mu.Unlock()
			return len(s.cache.entries) == 0
		}, time.Second, 5*time.Millisecond)
		cancel()
		s.ErrorIs(<-done, context.Canceled)
	})
}

func (s *CachedProviderSuite) TestConcurrentLookupsShareOneCall() {
	s.inner.delay = 50 * time.Millisecond
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			loc, err := s.cached.Locate(ctx, "198.51.100.1")
			s.NoError(err)
			s.Equal("BD", loc.CountryCode)
		}()
	}
	wg.Wait()

	s.Equal(int32(1), s.inner.calls.Load())
}

func (s *CachedProviderSuite) TestFailuresAreNotCached() {
	s.inner.err = NewProviderError(ErrorProviderOutage, "stub", "down", errors.New("502"))
	ctx := context.Background()

	_, err := s.cached.Locate(ctx, "203.0.113.7")
	s.Error(err)
	_, err = s.cached.Locate(ctx, "203.0.113.7")
	s.Error(err)

	s.Equal(int32(2), s.inner.calls.Load())
	s.Equal(2.0, testutil.ToFloat64(s.metrics.Lookups.WithLabelValues("provider_outage")))
}

func (s *CachedProviderSuite) TestRecoversOnNextLookupAfterOutage() {
	ctx := context.Background()
	s.inner.err = NewProviderError(ErrorProviderOutage, "stub", "down", errors.New("502"))
	for range 5 {
		_, err := s.cached.Locate(ctx, "203.0.113.7")
		s.Error(err)
	}

	s.inner.err = nil
	loc, err := s.cached.Locate(ctx, "203.0.113.7")
	s.Require().NoError(err)
	s.Equal("BD", loc.CountryCode)
	s.Equal(int32(6), s.inner.calls.Load())
}

func (s *CachedProviderSuite) TestCallerAddressIsNotCached() {
	ctx := context.Background()
	_, err := s.cached.Locate(ctx, "")
	s.Require().NoError(err)
	_, err = s.cached.Locate(ctx, "")
	s.Require().NoError(err)
	s.Equal(int32(2), s.inner.calls.Load())
}

func (s *CachedProviderSuite) TestLocatorSkipsNonPublicAddresses() {
	locator := NewLocator(s.cached)
	ctx := context.Background()

	for _, ip := range []string{"", "127.0.0.1", "10.1.2.3", "192.168.0.10", "::1", "not-an-ip"} {
		_, err := locator.CountryCode(ctx, ip)
		s.Equal(ErrorNotFound, GetCategory(err), ip)
	}
	s.Zero(s.inner.calls.Load())

	code, err := locator.CountryCode(ctx, "203.0.113.7")
	s.Require().NoError(err)
	s.Equal("BD", code)
}
