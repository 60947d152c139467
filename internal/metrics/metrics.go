// Package metrics provides the centralized Prometheus metrics registry for the scanner.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "promo_hedge"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	ScansTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scans_total",
		Help:      "Total number of scans by strategy and result",
	}, []string{"strategy", "result"})
	OpportunitiesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "opportunities_total",
		Help:      "Total number of opportunities reported by strategy and bucket",
	}, []string{"strategy", "bucket"})
	MatchedPairsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "matched_pairs_total",
		Help:      "Total number of source/hedge pairs matched",
	})
	PairErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pair_errors_total",
		Help:      "Total number of pairs the calculator rejected",
	})
	FetchErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetch_errors_total",
		Help:      "Total number of failed odds fetches by sport and error code",
	}, []string{"sport", "code"})
	CircuitBreakerTripsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "circuit_breaker_trips_total",
		Help:      "Total number of odds provider circuit breaker trips",
	})
	CacheLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
		Help:      "Odds cache lookups by result",
	}, []string{"result"})
)

// Gauge metrics
var (
	QuotaRemaining = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "odds_api_requests_remaining",
		Help:      "Requests remaining in the odds provider quota",
	})
	QuotaUsed = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "odds_api_requests_used",
		Help:      "Requests used from the odds provider quota",
	})
	LastScanOpportunities = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_scan_opportunities",
		Help:      "Number of opportunities in the most recent scan",
	})
	BestProfit = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_scan_best_profit",
		Help:      "Highest guaranteed profit in the most recent scan",
	})
	CacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cache_hit_ratio",
		Help:      "Odds cache hit ratio since start",
	})
)

// Histogram metrics
var (
	ScanDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "scan_duration_seconds",
		Help:      "Duration of scans in seconds",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	})
	FetchLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "fetch_latency_seconds",
		Help:      "Latency of odds fetches in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"source"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(ScansTotal)
		registry.MustRegister(OpportunitiesTotal)
		registry.MustRegister(MatchedPairsTotal)
		registry.MustRegister(PairErrorsTotal)
		registry.MustRegister(FetchErrorsTotal)
		registry.MustRegister(CircuitBreakerTripsTotal)
		registry.MustRegister(CacheLookupsTotal)

		registry.MustRegister(QuotaRemaining)
		registry.MustRegister(QuotaUsed)
		registry.MustRegister(LastScanOpportunities)
		registry.MustRegister(BestProfit)
		registry.MustRegister(CacheHitRatio)

		registry.MustRegister(ScanDuration)
		registry.MustRegister(FetchLatency)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordScan records a finished scan.
func RecordScan(strategy string, success bool, durationSeconds float64) {
	result := "success"
	if !success {
		result = "failure"
	}
	ScansTotal.WithLabelValues(strategy, result).Inc()
	ScanDuration.Observe(durationSeconds)
}

// RecordOpportunity records one reported opportunity.
func RecordOpportunity(strategy, bucket string) {
	OpportunitiesTotal.WithLabelValues(strategy, bucket).Inc()
}

// RecordMatchedPairs adds n matched pairs.
func RecordMatchedPairs(n int) {
	MatchedPairsTotal.Add(float64(n))
}

// RecordPairError records a calculator failure.
func RecordPairError() {
	PairErrorsTotal.Inc()
}

// RecordFetchError records a failed fetch for a sport.
func RecordFetchError(sport, code string) {
	FetchErrorsTotal.WithLabelValues(sport, code).Inc()
}

// RecordFetchLatency records how long a fetch took.
func RecordFetchLatency(source string, durationSeconds float64) {
	FetchLatency.WithLabelValues(source).Observe(durationSeconds)
}

// RecordCircuitBreakerTrip records a circuit breaker trip event.
func RecordCircuitBreakerTrip() {
	CircuitBreakerTripsTotal.Inc()
}

// UpdateQuota updates the provider quota gauges. Negative values are unknown and skipped.
func UpdateQuota(remaining, used int) {
	if remaining >= 0 {
		QuotaRemaining.Set(float64(remaining))
	}
	if used >= 0 {
		QuotaUsed.Set(float64(used))
	}
}

// UpdateLastScan updates the gauges describing the most recent scan.
func UpdateLastScan(opportunities int, bestProfit float64) {
	LastScanOpportunities.Set(float64(opportunities))
	BestProfit.Set(bestProfit)
}

// RecordCacheLookup records a cache hit or miss and refreshes the hit ratio.
func RecordCacheLookup(hit bool, hitRatio float64) {
	if hit {
		CacheLookupsTotal.WithLabelValues("hit").Inc()
	} else {
		CacheLookupsTotal.WithLabelValues("miss").Inc()
	}
	CacheHitRatio.Set(hitRatio)
}
