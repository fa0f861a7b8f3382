package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks geolocation lookups.
type Metrics struct {
	Lookups        *prometheus.CounterVec
	LookupDuration prometheus.Histogram
	CacheHits      prometheus.Counter
}

// New registers geolocation metrics with reg. Pass prometheus.DefaultRegisterer
// in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Lookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "signup_geoip_lookups_total",
			Help: "Geolocation provider lookups by result (ok or error category)",
		}, []string{"result"}),
		LookupDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "signup_geoip_lookup_duration_seconds",
			Help:    "Duration of geolocation provider calls",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		CacheHits: f.NewCounter(prometheus.CounterOpts{
			Name: "signup_geoip_cache_hits_total",
			Help: "Geolocation lookups served from cache",
		}),
	}
}

// ObserveLookup records one provider call that started at start.
func (m *Metrics) ObserveLookup(result string, start time.Time) {
	m.Lookups.WithLabelValues(result).Inc()
	m.LookupDuration.Observe(time.Since(start).Seconds())
}

// IncrementCacheHit records a lookup answered from cache.
func (m *Metrics) IncrementCacheHit() {
	m.CacheHits.Inc()
}
