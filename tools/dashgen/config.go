package main

import "errors"

// KnownMetrics is the set of metric names exported by seller-stats plus
// recording rule names referenced in dashboards and alerts.
var KnownMetrics = map[string]bool{
	// HTTP metrics.
	"ss_http_request_duration_seconds": true,
	"ss_http_requests_total":           true,

	// Health metrics.
	"ss_healthz_up": true,

	// Loader metrics.
	"ss_records_loaded_total":       true,
	"ss_records_removed_total":      true,
	"ss_loader_errors_total":        true,
	"ss_scrapinghub_requests_total": true,

	// Report metrics.
	"ss_report_duration_seconds": true,
	"ss_reports_total":           true,
	"ss_category_diff_entries":   true,

	// Export metrics.
	"ss_exports_total":      true,
	"ss_export_bytes_total": true,

	// Notification metrics.
	"ss_notifications_total": true,

	// Category watch metrics.
	"ss_watch_runs_total":       true,
	"ss_watch_duration_seconds": true,

	// Recording rules.
	"ss:http_requests:rate5m":  true,
	"ss:http_errors:rate5m":    true,
	"ss:records_loaded:rate5m": true,
	"ss:loader_errors:rate5m":  true,
	"ss:reports:rate5m":        true,
	"ss:export_errors:rate5m":  true,

	// Standard Prometheus metrics referenced in dashboards.
	"up":                         true,
	"process_start_time_seconds": true,
}

// Config controls which artifacts the generator produces and where they go.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig returns a Config that generates all artifacts into ../../deploy
// (relative to tools/dashgen/).
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		return errors.New("at least one of dashboard or rules must be enabled")
	}
	return nil
}
