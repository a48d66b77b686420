package rules

// AlertRules returns a PrometheusRule CR containing alert rules for
// seller-stats operational monitoring.
func AlertRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name:   "ss-alerts",
			Labels: defaultLabels(),
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "ss-alerts",
					Rules: []Rule{
						{
							Alert:  "SellerStatsDown",
							Expr:   `absent(up{job="seller-stats"})`,
							For:    "2m",
							Labels: severity("critical"),
							Annotations: map[string]string{
								"summary":     "Seller Stats is down",
								"description": "The seller-stats job has been absent for more than 2 minutes.",
							},
						},
						{
							Alert:  "SellerStatsHealthzDown",
							Expr:   `ss_healthz_up == 0`,
							For:    "2m",
							Labels: severity("critical"),
							Annotations: map[string]string{
								"summary":     "Seller Stats health check is failing",
								"description": "The health probe has been reporting failure for more than 2 minutes.",
							},
						},
						{
							Alert:  "SellerStatsHighErrorRate",
							Expr:   `ss:http_errors:rate5m / ss:http_requests:rate5m > 0.05`,
							For:    "5m",
							Labels: severity("warning"),
							Annotations: map[string]string{
								"summary":     "High HTTP error rate on Seller Stats",
								"description": "More than 5% of API requests are returning 5xx errors over the last 5 minutes.",
							},
						},
						{
							Alert:  "SellerStatsLoaderErrors",
							Expr:   `sum(ss:loader_errors:rate5m) > 0`,
							For:    "10m",
							Labels: severity("warning"),
							Annotations: map[string]string{
								"summary":     "Dataset loads are failing",
								"description": "CSV, JSON lines or Scrapinghub loads have been failing for more than 10 minutes.",
							},
						},
						{
							Alert:  "SellerStatsReportFailures",
							Expr:   `ss:reports:rate5m{status="error"} > 0`,
							For:    "10m",
							Labels: severity("warning"),
							Annotations: map[string]string{
								"summary":     "Category reports are failing",
								"description": "Report builds have been returning errors for more than 10 minutes.",
							},
						},
						{
							Alert:  "SellerStatsExportFailures",
							Expr:   `ss:export_errors:rate5m > 0`,
							For:    "5m",
							Labels: severity("warning"),
							Annotations: map[string]string{
								"summary":     "Spreadsheet exports are failing",
								"description": "XLSX uploads to object storage have been failing for more than 5 minutes.",
							},
						},
						{
							Alert:  "SellerStatsNotificationFailures",
							Expr:   `increase(ss_notifications_total{status="error"}[1h]) > 0`,
							Labels: severity("info"),
							Annotations: map[string]string{
								"summary":     "Category diff notifications are failing",
								"description": "The Discord webhook rejected at least one category diff notification in the last hour.",
							},
						},
						{
							Alert:  "SellerStatsWatchFailures",
							Expr:   `increase(ss_watch_runs_total{status="error"}[6h]) > 0`,
							Labels: severity("warning"),
							Annotations: map[string]string{
								"summary":     "Scheduled category watches are failing",
								"description": "At least one category watch failed in the last 6 hours. Check the Scrapinghub key and the export target.",
							},
						},
						{
							Alert:  "SellerStatsRecordsDropped",
							Expr:   `sum(rate(ss_records_removed_total[30m])) / sum(rate(ss_records_loaded_total[30m])) > 0.5`,
							For:    "30m",
							Labels: severity("info"),
							Annotations: map[string]string{
								"summary":     "Most loaded records are dropped while cleaning",
								"description": "Over half of the loaded records fail the schema. The crawler output may have changed.",
							},
						},
					},
				},
			},
		},
	}
}

func severity(level string) map[string]string {
	return map[string]string{"severity": level}
}
