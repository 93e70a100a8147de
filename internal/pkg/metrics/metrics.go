package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ListingsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "educycle_listings_created_total",
		Help: "Total number of marketplace posts created",
	})

	ListingUpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "educycle_listing_updates_total",
		Help: "Total number of post updates by kind",
	}, []string{"kind"})

	LedgerEntriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "educycle_ledger_entries_total",
		Help: "Total number of ledger entries recorded",
	}, []string{"target"})

	LedgerPublishFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "educycle_ledger_publish_failures_total",
		Help: "Ledger entries that could not be published to the event stream",
	})

	AuthAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "educycle_auth_attempts_total",
		Help: "Login attempts by result",
	}, []string{"result"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)
