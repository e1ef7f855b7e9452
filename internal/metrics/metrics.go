// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "stockpulse"

var (
	// CacheLookups counts snapshot cache lookups by result (hit, miss, shared).
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Snapshot cache lookups by result.",
	}, []string{"result"})

	// CacheComputations counts recomputations by outcome (ok, error).
	CacheComputations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "computations_total",
		Help:      "Snapshot recomputations executed by the cache.",
	}, []string{"outcome"})

	// CacheEntries tracks the number of live cache entries.
	CacheEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "entries",
		Help:      "Snapshot cache entries currently stored.",
	})

	// RateLimitDecisions counts governor decisions (admitted, rejected).
	RateLimitDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ratelimit",
		Name:      "decisions_total",
		Help:      "Rate governor decisions.",
	}, []string{"decision"})

	// RateLimitClients tracks the number of client counters held in memory.
	RateLimitClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "ratelimit",
		Name:      "tracked_clients",
		Help:      "Client counters currently tracked by the rate governor.",
	})

	// SourceQueryDuration observes aggregation source latency by operation.
	SourceQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "source",
		Name:      "query_duration_seconds",
		Help:      "Aggregation source query latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "outcome"})
)

// Outcome maps an error to the "ok"/"error" label value.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
