package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/bargauge"
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// ReportDuration returns a timeseries panel showing p50 and p95 report build
// time.
func ReportDuration() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Report Duration").
		Description("Time to clean a dataset and compute its category report").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`histogram_quantile(0.50, sum(rate(ss_report_duration_seconds_bucket{job="seller-stats"}[5m])) by (le))`,
			"p50",
			"A",
		)).
		WithTarget(PromQuery(
			`histogram_quantile(0.95, sum(rate(ss_report_duration_seconds_bucket{job="seller-stats"}[5m])) by (le))`,
			"p95",
			"B",
		)).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// ReportOutcomes returns a timeseries panel showing report builds per minute
// by status.
func ReportOutcomes() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Reports / min").
		Description("Category report builds by outcome").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(`sum by (status) (ss:reports:rate5m) * 60`, "{{status}}", "A")).
		FillOpacity(10).
		LineWidth(2).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// CategoryDiffEntries returns a bar gauge panel with the size of the last
// category diff per kind.
func CategoryDiffEntries() *bargauge.PanelBuilder {
	return bargauge.NewPanelBuilder().
		Title("Category Diff").
		Description("Entries in the most recent category diff (added, removed, full)").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`max by (kind) (ss_category_diff_entries{job="seller-stats"})`,
			"{{kind}}", "A",
		)).
		Orientation(common.VizOrientationHorizontal).
		Min(0).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic())
}

// ExportThroughput returns a timeseries panel showing uploaded spreadsheet
// bytes per second.
func ExportThroughput() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Export Throughput").
		Description("XLSX bytes uploaded per second").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(`rate(ss_export_bytes_total{job="seller-stats"}[5m])`, "bytes/s", "A")).
		WithTarget(PromQuery(
			`sum(rate(ss_exports_total{job="seller-stats",status="error"}[5m]))`,
			"errors/s", "B",
		)).
		Unit("Bps").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}
