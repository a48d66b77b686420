package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// RecordsLoadedRate returns a timeseries panel showing records read per
// minute, split by loader source.
func RecordsLoadedRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Records / min").
		Description("Raw records read by loaders per minute").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(`sum by (source) (ss:records_loaded:rate5m) * 60`, "{{source}}", "A")).
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// LoaderErrors returns a timeseries panel showing failed loads per minute.
func LoaderErrors() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Loader Errors / min").
		Description("Loads that failed, by source").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(`sum by (source) (ss:loader_errors:rate5m) * 60`, "{{source}}", "A")).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenYellowRed(0.1, 1)).
		ColorScheme(ColorSchemeThresholds()).
		DrawStyle(common.GraphDrawStyleLine)
}

// ScrapinghubRequests returns a timeseries panel showing storage API calls
// per endpoint.
func ScrapinghubRequests() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Scrapinghub Requests").
		Description("Scrapinghub storage API requests per second by endpoint").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			`sum by (endpoint) (rate(ss_scrapinghub_requests_total{job="seller-stats"}[5m]))`,
			"{{endpoint}}", "A",
		)).
		Unit("reqps").
		FillOpacity(10).
		LineWidth(2).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// RecordsRemoved returns a timeseries panel showing the share of loaded
// records dropped while cleaning.
func RecordsRemoved() *timeseries.PanelBuilder {
	expr := `sum(rate(ss_records_removed_total{job="seller-stats"}[5m])) / sum(ss:records_loaded:rate5m) * 100`
	return timeseries.NewPanelBuilder().
		Title("Records Dropped %").
		Description("Records removed by cleaning as a percentage of loaded records").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(FullWidth).
		WithTarget(PromQuery(expr, "dropped %", "A")).
		Unit("percent").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenYellowRed(20, 50)).
		ColorScheme(ColorSchemeThresholds()).
		DrawStyle(common.GraphDrawStyleLine)
}
