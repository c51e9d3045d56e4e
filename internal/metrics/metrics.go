// SPDX-License-Identifier: MIT

// Package metrics provides Prometheus metrics for the proxy.
// No high-cardinality labels (no item ids, no client addresses).
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RefreshRunsTotal counts refresh cycles by outcome (success/failure/busy).
	RefreshRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "xtreamgate_refresh_runs_total",
		Help: "Total number of refresh cycles, by outcome.",
	}, []string{"outcome"})

	// RefreshDuration observes the wall time of complete refresh cycles.
	RefreshDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "xtreamgate_refresh_duration_seconds",
		Help:    "Duration of successful refresh cycles in seconds.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	})

	// CatalogItems tracks the published item count per content type.
	CatalogItems = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "xtreamgate_catalog_items",
		Help: "Items in the currently published snapshot, by content type.",
	}, []string{"type"})

	// CatalogCategories tracks the published category count per content type.
	CatalogCategories = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "xtreamgate_catalog_categories",
		Help: "Categories in the currently published snapshot, by content type.",
	}, []string{"type"})

	// UpstreamRequestsTotal counts upstream player_api requests by action and outcome.
	UpstreamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "xtreamgate_upstream_requests_total",
		Help: "Total upstream player_api requests, by action and outcome.",
	}, []string{"action", "outcome"})

	// DetailFallbacksTotal counts detail lookups that degraded to the empty
	// fallback structure because the upstream call failed.
	DetailFallbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "xtreamgate_detail_fallbacks_total",
		Help: "Total detail lookups served with the empty fallback structure, by content type.",
	}, []string{"type"})
)

// RecordRefreshSuccess records a completed refresh cycle.
func RecordRefreshSuccess(d time.Duration) {
	RefreshRunsTotal.WithLabelValues("success").Inc()
	RefreshDuration.Observe(d.Seconds())
}

// RecordRefreshFailure records an aborted refresh cycle.
func RecordRefreshFailure() {
	RefreshRunsTotal.WithLabelValues("failure").Inc()
}

// RecordRefreshBusy records a refresh trigger rejected because one was running.
func RecordRefreshBusy() {
	RefreshRunsTotal.WithLabelValues("busy").Inc()
}

// RecordCatalogCounts updates the published snapshot gauges for one content type.
func RecordCatalogCounts(contentType string, items, categories int) {
	CatalogItems.WithLabelValues(contentType).Set(float64(items))
	CatalogCategories.WithLabelValues(contentType).Set(float64(categories))
}

// RecordUpstreamRequest counts one upstream request.
func RecordUpstreamRequest(action, outcome string) {
	UpstreamRequestsTotal.WithLabelValues(action, outcome).Inc()
}

// RecordDetailFallback counts one degraded detail lookup.
func RecordDetailFallback(contentType string) {
	DetailFallbacksTotal.WithLabelValues(contentType).Inc()
}
