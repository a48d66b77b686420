package rules

// RecordingRules returns a PrometheusRule CR containing pre-computed rate
// expressions used by dashboards and alert rules.
func RecordingRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name:   "ss-recording-rules",
			Labels: defaultLabels(),
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "ss-recording",
					Rules: []Rule{
						{
							Record: "ss:http_requests:rate5m",
							Expr:   `sum(rate(ss_http_requests_total[5m]))`,
						},
						{
							Record: "ss:http_errors:rate5m",
							Expr:   `sum(rate(ss_http_requests_total{status=~"5.."}[5m]))`,
						},
						{
							Record: "ss:records_loaded:rate5m",
							Expr:   `sum by (source) (rate(ss_records_loaded_total[5m]))`,
						},
						{
							Record: "ss:loader_errors:rate5m",
							Expr:   `sum by (source) (rate(ss_loader_errors_total[5m]))`,
						},
						{
							Record: "ss:reports:rate5m",
							Expr:   `sum by (status) (rate(ss_reports_total[5m]))`,
						},
						{
							Record: "ss:export_errors:rate5m",
							Expr:   `sum(rate(ss_exports_total{status="error"}[5m]))`,
						},
					},
				},
			},
		},
	}
}
