package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the trust engine.
type Metrics struct {
	GateChecks        *prometheus.CounterVec
	StepsSubmitted    *prometheus.CounterVec
	SessionsCompleted prometheus.Counter
	RenewalsSubmitted prometheus.Counter
	RenewalsReviewed  *prometheus.CounterVec
	ExpirationSweeps  prometheus.Counter
	ProfilesExpired   prometheus.Counter
	RequestLatency    *prometheus.HistogramVec
	StatusCacheHits   prometheus.Counter
	StatusCacheMisses prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		GateChecks: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "campustrust_gate_checks_total",
			Help: "Access gate evaluations, labelled by outcome.",
		}, []string{"outcome"}),
		StepsSubmitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "campustrust_verification_steps_total",
			Help: "Verification step submissions, labelled by method and result.",
		}, []string{"method", "result"}),
		SessionsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "campustrust_sessions_completed_total",
			Help: "Verification sessions that reached the complete state.",
		}),
		RenewalsSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "campustrust_renewals_submitted_total",
			Help: "Renewal requests submitted for review.",
		}),
		RenewalsReviewed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "campustrust_renewals_reviewed_total",
			Help: "Renewal requests reviewed, labelled by decision.",
		}, []string{"decision"}),
		ExpirationSweeps: promauto.NewCounter(prometheus.CounterOpts{
			Name: "campustrust_expiration_sweeps_total",
			Help: "Completed expiration sweep passes.",
		}),
		ProfilesExpired: promauto.NewCounter(prometheus.CounterOpts{
			Name: "campustrust_profiles_expired_total",
			Help: "Profiles that exhausted their grace window.",
		}),
		RequestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "campustrust_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
		StatusCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "campustrust_status_cache_hits_total",
			Help: "Verification status reads served from cache.",
		}),
		StatusCacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "campustrust_status_cache_misses_total",
			Help: "Verification status reads that recomputed from completions.",
		}),
	}
}
