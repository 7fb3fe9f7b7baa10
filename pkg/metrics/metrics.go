// Package metrics provides Prometheus metrics for the aggregation engine.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RecordsFetchedTotal is a counter of raw records fetched from sources.
	RecordsFetchedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "records_fetched_total",
			Help: "Total number of raw records fetched from sources",
		},
		[]string{"source"},
	)

	// FetchFailuresTotal is a counter of failed source fetches.
	FetchFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fetch_failures_total",
			Help: "Total number of failed source fetches",
		},
		[]string{"source"},
	)

	// AggregationDuration is a histogram of full aggregation cycle durations.
	AggregationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "aggregation_duration_seconds",
			Help:    "Duration of full aggregation cycles",
			Buckets: prometheus.DefBuckets,
		},
	)

	// MatchGroups is a gauge of match groups produced by the last cycle.
	MatchGroups = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "match_groups",
			Help: "Number of match groups produced by the last aggregation cycle",
		},
	)

	// CanonicalAssets is a gauge of canonical assets emitted by the last cycle.
	CanonicalAssets = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "canonical_assets",
			Help: "Number of canonical assets emitted by the last aggregation cycle",
		},
	)

	// InvalidRecordsTotal is a counter of raw records dropped by validation.
	InvalidRecordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invalid_records_total",
			Help: "Total number of raw records dropped by validation",
		},
		[]string{"source"},
	)

	// ExchangeRatesKnown is a gauge of currencies present in the rate table.
	ExchangeRatesKnown = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "exchange_rates_known",
			Help: "Number of currencies with a configured exchange rate",
		},
	)

	// SourceLastFetch is a gauge of the last successful fetch timestamp per source.
	SourceLastFetch = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "source_last_fetch_timestamp",
			Help: "Unix timestamp of last successful fetch from source",
		},
		[]string{"source"},
	)
)

// Init initializes the Prometheus metrics registry.
func Init() {
	prometheus.MustRegister(
		RecordsFetchedTotal,
		FetchFailuresTotal,
		AggregationDuration,
		MatchGroups,
		CanonicalAssets,
		InvalidRecordsTotal,
		ExchangeRatesKnown,
		SourceLastFetch,
	)
}

// ServeHTTP serves Prometheus metrics on the specified address.
func ServeHTTP(addr string) error {
	http.Handle("/metrics", promhttp.Handler())
	server := &http.Server{
		Addr:         addr,
		Handler:      http.DefaultServeMux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return server.ListenAndServe()
}

// RecordFetch records a successful source fetch.
func RecordFetch(source string, records int) {
	RecordsFetchedTotal.WithLabelValues(source).Add(float64(records))
	SourceLastFetch.WithLabelValues(source).SetToCurrentTime()
}

// RecordFetchFailure records a failed source fetch.
func RecordFetchFailure(source string) {
	FetchFailuresTotal.WithLabelValues(source).Inc()
}

// RecordCycle records the outcome of an aggregation cycle.
func RecordCycle(groups, assets int, duration time.Duration) {
	AggregationDuration.Observe(duration.Seconds())
	MatchGroups.Set(float64(groups))
	CanonicalAssets.Set(float64(assets))
}

// RecordInvalidRecord records a raw record dropped by validation.
func RecordInvalidRecord(source string) {
	InvalidRecordsTotal.WithLabelValues(source).Inc()
}
