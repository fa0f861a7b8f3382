// Package redis connects the shared Redis client used for drafts and cached
// geolocation lookups.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"signup/internal/platform/config"
)

const healthTimeout = 2 * time.Second

// Client is a connected go-redis client.
type Client struct {
	*redis.Client
}

// New dials Redis and pings it. An empty URL means Redis is not configured:
// New returns a nil client and no error.
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	opts.MinIdleConns = cfg.MinIdleConns
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if cfg.ReadTimeout > 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}

	c := &Client{Client: redis.NewClient(opts)}
	if err := c.Health(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

// Health pings Redis, giving up after a couple of seconds so /readyz stays
// responsive when Redis hangs.
func (c *Client) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// RegisterPoolMetrics exposes the connection pool counters to reg.
func (c *Client) RegisterPoolMetrics(reg prometheus.Registerer) error {
	gauge := func(name, help string, read func(*redis.PoolStats) uint32) prometheus.Collector {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "signup_redis_pool_" + name,
			Help: help,
		}, func() float64 { return float64(read(c.PoolStats())) })
	}
	counter := func(name, help string, read func(*redis.PoolStats) uint32) prometheus.Collector {
		return prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "signup_redis_pool_" + name,
			Help: help,
		}, func() float64 { return float64(read(c.PoolStats())) })
	}

	collectors := []prometheus.Collector{
		counter("hits_total", "Connections reused from the pool", func(s *redis.PoolStats) uint32 { return s.Hits }),
		counter("misses_total", "Connections dialed because the pool was empty", func(s *redis.PoolStats) uint32 { return s.Misses }),
		counter("timeouts_total", "Waits for a free connection that timed out", func(s *redis.PoolStats) uint32 { return s.Timeouts }),
		gauge("connections", "Open connections", func(s *redis.PoolStats) uint32 { return s.TotalConns }),
		gauge("idle_connections", "Idle connections", func(s *redis.PoolStats) uint32 { return s.IdleConns }),
	}
	for _, col := range collectors {
		if err := reg.Register(col); err != nil {
			return fmt.Errorf("register redis pool metrics: %w", err)
		}
	}
	return nil
}
