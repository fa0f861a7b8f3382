package geoip

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"signup/internal/geoip/metrics"
)

// CachedProvider answers repeat lookups from a cache and collapses
// concurrent lookups of the same address into one provider call.
type CachedProvider struct {
	inner   Provider
	cache   Cache
	ttl     time.Duration
	group   singleflight.Group
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures a CachedProvider.
type Option func(*CachedProvider)

// WithLogger sets the logger for cache failures.
func WithLogger(logger *slog.Logger) Option {
	return func(p *CachedProvider) {
		p.logger = logger
	}
}

// WithMetrics enables lookup metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *CachedProvider) {
		p.metrics = m
	}
}

// NewCachedProvider wraps inner with cache; entries live for ttl.
func NewCachedProvider(inner Provider, cache Cache, ttl time.Duration, opts ...Option) *CachedProvider {
	p := &CachedProvider{
		inner:  inner,
		cache:  cache,
		ttl:    ttl,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

func (p *CachedProvider) ID() string {
	return p.inner.ID()
}

// Locate serves ip from cache when possible. Cache errors are logged and
// treated as misses. The caller's own address (empty ip) is never cached.
func (p *CachedProvider) Locate(ctx context.Context, ip string) (*Location, error) {
	if ip != "" {
		loc, ok, err := p.cache.Get(ctx, ip)
		if err != nil {
			p.logger.WarnContext(ctx, "geoip cache read failed", "error", err)
		}
		if ok {
			if p.metrics != nil {
				p.metrics.IncrementCacheHit()
			}
			return loc, nil
		}
	}

	v, err, _ := p.group.Do(ip, func() (any, error) {
		start := time.Now()
		loc, err := p.inner.Locate(ctx, ip)
		if p.metrics != nil {
			result := "ok"
			if err != nil {
				result = string(GetCategory(err))
			}
			p.metrics.ObserveLookup(result, start)
		}
		if err != nil {
			return nil, err
		}
		if ip != "" {
			if err := p.cache.Set(ctx, ip, loc, p.ttl); err != nil {
				p.logger.WarnContext(ctx, "geoip cache write failed", "error", err)
			}
		}
		return loc, nil
	})
	if err != nil {
		return nil, err
	}
	loc := *v.(*Location)
	return &loc, nil
}
