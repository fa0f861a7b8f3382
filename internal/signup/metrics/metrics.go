package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the sign-up module.
type Metrics struct {
	DraftsStarted  prometheus.Counter
	Derivations    *prometheus.CounterVec
	Submissions    *prometheus.CounterVec
	SubmitDuration prometheus.Histogram
}

// New registers sign-up metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		DraftsStarted: f.NewCounter(prometheus.CounterOpts{
			Name: "signup_drafts_started_total",
			Help: "Registration drafts created from the email step",
		}),
		Derivations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "signup_field_derivations_total",
			Help: "Edits that derived other fields, by the field the user edited",
		}, []string{"trigger"}),
		Submissions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "signup_submissions_total",
			Help: "Submission attempts by outcome",
		}, []string{"outcome"}),
		SubmitDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "signup_submit_duration_seconds",
			Help:    "Duration of successful submissions including password hashing",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementDraftsStarted records a new draft.
func (m *Metrics) IncrementDraftsStarted() {
	m.DraftsStarted.Inc()
}

// IncrementDerivation records an edit of trigger that changed other fields.
func (m *Metrics) IncrementDerivation(trigger string) {
	m.Derivations.WithLabelValues(trigger).Inc()
}

// IncrementSubmission records a submission outcome: ok, invalid, conflict or error.
func (m *Metrics) IncrementSubmission(outcome string) {
	m.Submissions.WithLabelValues(outcome).Inc()
}

// ObserveSubmit records a submission that started at start.
func (m *Metrics) ObserveSubmit(start time.Time) {
	m.SubmitDuration.Observe(time.Since(start).Seconds())
}
