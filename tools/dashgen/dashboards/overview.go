// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/wondersell/seller-stats/tools/dashgen/panels"
)

// OverviewUID is the stable Grafana UID of the overview dashboard.
const OverviewUID = "ss-overview"

// BuildOverview constructs the Seller Stats overview dashboard.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("Seller Stats Overview").
		Uid(OverviewUID).
		Tags([]string{"ss", "seller-stats"}).
		Refresh("1m").
		Time("now-24h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	b.WithRow(dashboard.NewRowBuilder("Overview").
		WithPanel(panels.HealthzStat()).
		WithPanel(panels.ReportsLastHour()).
		WithPanel(panels.ExportsLastHour()).
		WithPanel(panels.UptimeStat()))

	b.WithRow(dashboard.NewRowBuilder("HTTP").
		WithPanel(panels.RequestRate()).
		WithPanel(panels.LatencyPercentiles()).
		WithPanel(panels.ErrorRate()))

	b.WithRow(dashboard.NewRowBuilder("Loading").
		WithPanel(panels.RecordsLoadedRate()).
		WithPanel(panels.LoaderErrors()).
		WithPanel(panels.ScrapinghubRequests()).
		WithPanel(panels.RecordsRemoved()))

	b.WithRow(dashboard.NewRowBuilder("Reports").
		WithPanel(panels.ReportDuration()).
		WithPanel(panels.ReportOutcomes()).
		WithPanel(panels.CategoryDiffEntries()).
		WithPanel(panels.ExportThroughput()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}
