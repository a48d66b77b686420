package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wondersell/seller-stats/tools/dashgen/rules"
)

var known = map[string]bool{
	"ss_reports_total":           true,
	"ss_report_duration_seconds": true,
	"ss:reports:rate5m":          true,
}

func TestDashboard(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		dash         any
		wantErrors   int
		wantWarnings []string
	}{
		{
			name: "nested row panels",
			dash: map[string]any{
				"title": "Overview",
				"panels": []any{
					map[string]any{
						"title": "Reports",
						"panels": []any{
							map[string]any{
								"title": "Rate",
								"targets": []any{
									map[string]any{"expr": `sum(rate(ss_reports_total[5m]))`},
								},
							},
						},
					},
				},
			},
		},
		{
			name: "histogram suffix is known",
			dash: map[string]any{"targets": []any{
				map[string]any{"expr": `histogram_quantile(0.95, sum(rate(ss_report_duration_seconds_bucket[5m])) by (le))`},
			}},
		},
		{
			name: "unknown metric warns",
			dash: map[string]any{"title": "Lost", "targets": []any{
				map[string]any{"expr": `rate(ss_missing_total[5m])`},
			}},
			wantWarnings: []string{"panel Lost: unknown metric ss_missing_total"},
		},
		{
			name: "syntax error",
			dash: map[string]any{"targets": []any{
				map[string]any{"expr": `sum(rate(ss_reports_total[5m])`},
			}},
			wantErrors: 1,
		},
		{
			name:       "no queries",
			dash:       map[string]any{"title": "Empty"},
			wantErrors: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Dashboard(tt.dash, known)
			assert.Len(t, got.Errors, tt.wantErrors, "errors: %v", got.Errors)
			assert.Equal(t, tt.wantErrors == 0, got.Ok())
			assert.Equal(t, tt.wantWarnings, got.Warnings)
		})
	}
}

func TestDashboard_MarshalError(t *testing.T) {
	t.Parallel()

	got := Dashboard(map[string]any{"bad": make(chan int)}, known)
	require.Len(t, got.Errors, 1)
	assert.Contains(t, got.Errors[0], "marshaling dashboard")
}

func TestRules(t *testing.T) {
	t.Parallel()

	cr := func(rs ...rules.Rule) rules.PrometheusRule {
		return rules.PrometheusRule{Spec: rules.PrometheusRuleSpec{
			Groups: []rules.RuleGroup{{Name: "g", Rules: rs}},
		}}
	}
	sev := map[string]string{"severity": "warning"}

	tests := []struct {
		name         string
		cr           rules.PrometheusRule
		wantErrors   []string
		wantWarnings []string
	}{
		{
			name: "valid",
			cr: cr(
				rules.Rule{Record: "ss:reports:rate5m", Expr: `sum by (status) (rate(ss_reports_total[5m]))`},
				rules.Rule{Alert: "Failing", Expr: `ss:reports:rate5m{status="error"} > 0`, Labels: sev},
			),
		},
		{
			name:       "missing name",
			cr:         cr(rules.Rule{Expr: `up`}),
			wantErrors: []string{"group g: rule without record or alert name"},
		},
		{
			name: "duplicate",
			cr: cr(
				rules.Rule{Alert: "A", Expr: `ss_reports_total > 0`, Labels: sev},
				rules.Rule{Alert: "A", Expr: `ss_reports_total > 1`, Labels: sev},
			),
			wantErrors: []string{"rule A: duplicate name"},
		},
		{
			name:       "alert without severity",
			cr:         cr(rules.Rule{Alert: "A", Expr: `ss_reports_total > 0`}),
			wantErrors: []string{"alert A: missing severity label"},
		},
		{
			name:       "empty expression",
			cr:         cr(rules.Rule{Alert: "A", Expr: " ", Labels: sev}),
			wantErrors: []string{"rule A: empty expression"},
		},
		{
			name:         "unlisted recording rule",
			cr:           cr(rules.Rule{Record: "ss:other:rate5m", Expr: `rate(ss_reports_total[5m])`}),
			wantWarnings: []string{"recording rule ss:other:rate5m is not listed as a known metric"},
		},
		{
			name:       "empty group",
			cr:         cr(),
			wantErrors: []string{"group g: no rules"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Rules(tt.cr, known)
			assert.Equal(t, tt.wantErrors, got.Errors)
			assert.Equal(t, tt.wantWarnings, got.Warnings)
		})
	}
}
