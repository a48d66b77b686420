package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// WatchRuns returns a timeseries panel showing category watch runs per hour
// by outcome.
func WatchRuns() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Watch Runs / h").
		Description("Scheduled category watch runs by outcome (success, skipped, error)").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`sum by (status) (increase(ss_watch_runs_total{job="seller-stats"}[1h]))`,
			"{{status}}", "A",
		)).
		FillOpacity(10).
		LineWidth(2).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// WatchDuration returns a timeseries panel showing p95 watch cycle time.
func WatchDuration() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Watch Cycle Duration").
		Description("Time to compare every watched project once").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`histogram_quantile(0.95, sum(rate(ss_watch_duration_seconds_bucket{job="seller-stats"}[6h])) by (le))`,
			"p95", "A",
		)).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}
