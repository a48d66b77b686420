// Package metrics defines Prometheus metrics for seller-stats.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ss"

// HTTP metrics.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})

	HealthzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "healthz_up",
		Help:      "1 when the last health probe succeeded, 0 otherwise.",
	})
)

// Loading metrics.
var (
	RecordsLoadedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_loaded_total",
		Help:      "Total number of raw records read, by source.",
	}, []string{"source"})

	RecordsRemovedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_removed_total",
		Help:      "Total number of records dropped while cleaning datasets.",
	})

	LoaderErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "loader_errors_total",
		Help:      "Total number of failed loads, by source.",
	}, []string{"source"})

	ScrapinghubRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scrapinghub_requests_total",
		Help:      "Total number of Scrapinghub API requests, by endpoint.",
	}, []string{"endpoint"})
)

// Report metrics.
var (
	ReportDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "report_duration_seconds",
		Help:      "Duration of category report computation in seconds.",
		Buckets:   prometheus.DefBuckets,
	})

	ReportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reports_total",
		Help:      "Total number of category reports, by outcome.",
	}, []string{"status"})

	CategoryDiffEntries = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "category_diff_entries",
		Help:      "Number of entries in the last computed category diff, by kind.",
	}, []string{"kind"})
)

// Export metrics.
var (
	ExportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "exports_total",
		Help:      "Total number of exported spreadsheets, by outcome.",
	}, []string{"status"})

	ExportBytesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "export_bytes_total",
		Help:      "Total size of uploaded spreadsheets in bytes.",
	})
)

// Notification metrics.
var NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "notifications_total",
	Help:      "Total number of category diff notifications sent, by outcome.",
}, []string{"status"})

// Category watch metrics.
var (
	WatchRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "watch_runs_total",
		Help:      "Total number of scheduled category watch runs, by outcome.",
	}, []string{"status"})

	WatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "watch_duration_seconds",
		Help:      "Duration of a full category watch cycle in seconds.",
		Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
	})
)
