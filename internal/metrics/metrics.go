// Package metrics exposes Prometheus collectors for the crawler service.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	crawlerPagesTotal          *prometheus.CounterVec
	crawlerBooksExtractedTotal prometheus.Counter
	crawlerRunsTotal           *prometheus.CounterVec
	crawlerRowsPersistedTotal  prometheus.Counter
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		crawlerPagesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crawler_pages_total",
				Help: "Total number of pages fetched, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		crawlerBooksExtractedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "crawler_books_extracted_total",
				Help: "Total number of book records extracted from detail pages.",
			},
		)

		crawlerRunsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crawler_runs_total",
				Help: "Total number of crawl runs, labeled by terminal state.",
			},
			[]string{"state"},
		)

		crawlerRowsPersistedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "crawler_rows_persisted_total",
				Help: "Total number of rows inserted into the books table.",
			},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"method", "route"},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObservePage increments the page counter for the given outcome.
func ObservePage(outcome string) {
	if crawlerPagesTotal == nil {
		return
	}
	crawlerPagesTotal.WithLabelValues(outcome).Inc()
}

// ObserveBookExtracted increments the extracted-record counter.
func ObserveBookExtracted() {
	if crawlerBooksExtractedTotal == nil {
		return
	}
	crawlerBooksExtractedTotal.Inc()
}

// ObserveRun increments the run counter for the given terminal state.
func ObserveRun(state string) {
	if crawlerRunsTotal == nil {
		return
	}
	crawlerRunsTotal.WithLabelValues(state).Inc()
}

// ObserveRowsPersisted adds the number of rows inserted by a persist step.
func ObserveRowsPersisted(n int64) {
	if crawlerRowsPersistedTotal == nil || n <= 0 {
		return
	}
	crawlerRowsPersistedTotal.Add(float64(n))
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	if httpRequestsTotal == nil {
		return
	}
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}
