package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/wondersell/seller-stats/tools/dashgen/dashboards"
	"github.com/wondersell/seller-stats/tools/dashgen/rules"
	"github.com/wondersell/seller-stats/tools/dashgen/validate"
)

func TestDefaultConfigValid(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
}

func TestConfigValidate_EmptyOutputDir(t *testing.T) {
	t.Parallel()
	cfg := Config{OutputDir: "", DashboardEnabled: true}
	assert.Error(t, cfg.Validate())
}

func TestConfigValidate_NothingEnabled(t *testing.T) {
	t.Parallel()
	cfg := Config{OutputDir: "/tmp", DashboardEnabled: false, RulesEnabled: false}
	assert.Error(t, cfg.Validate())
}

func TestBuildOverviewDashboard(t *testing.T) {
	t.Parallel()

	dash, err := dashboards.BuildOverview().Build()
	require.NoError(t, err)

	require.NotNil(t, dash.Uid)
	assert.Equal(t, "ss-overview", *dash.Uid)

	require.NotNil(t, dash.Title)
	assert.Equal(t, "Seller Stats Overview", *dash.Title)

	require.NotNil(t, dash.Templating)
	assert.Len(t, dash.Templating.List, 1)
	assert.Equal(t, "datasource", dash.Templating.List[0].Name)

	assert.Len(t, dash.Panels, 5)

	totalPanels := 0
	for _, p := range dash.Panels {
		if p.RowPanel != nil {
			totalPanels += len(p.RowPanel.Panels)
		}
	}
	assert.Equal(t, 17, totalPanels)

	result := validate.Dashboard(dash, KnownMetrics)
	assert.True(t, result.Ok(), "validation errors: %v", result.Errors)
	assert.Empty(t, result.Warnings, "unexpected warnings: %v", result.Warnings)
}

func TestRecordingRules(t *testing.T) {
	t.Parallel()

	cr := rules.RecordingRules()
	assert.Equal(t, "monitoring.coreos.com/v1", cr.APIVersion)
	assert.Equal(t, "PrometheusRule", cr.Kind)
	assert.Equal(t, "ss-recording-rules", cr.Metadata.Name)

	require.Len(t, cr.Spec.Groups, 1)
	group := cr.Spec.Groups[0]
	assert.Equal(t, "ss-recording", group.Name)
	require.Len(t, group.Rules, 6)

	expectedRecords := []string{
		"ss:http_requests:rate5m",
		"ss:http_errors:rate5m",
		"ss:records_loaded:rate5m",
		"ss:loader_errors:rate5m",
		"ss:reports:rate5m",
		"ss:export_errors:rate5m",
	}
	for i, rule := range group.Rules {
		assert.Equal(t, expectedRecords[i], rule.Record)
		assert.True(t, KnownMetrics[rule.Record], "%s missing from KnownMetrics", rule.Record)
	}

	result := validate.Rules(cr, KnownMetrics)
	assert.True(t, result.Ok(), "validation errors: %v", result.Errors)
	assert.Empty(t, result.Warnings)

	data, err := yaml.Marshal(cr)
	require.NoError(t, err)
	assert.Contains(t, string(data), "apiVersion: monitoring.coreos.com/v1")
}

func TestAlertRules(t *testing.T) {
	t.Parallel()

	cr := rules.AlertRules()
	assert.Equal(t, "ss-alerts", cr.Metadata.Name)

	require.Len(t, cr.Spec.Groups, 1)
	group := cr.Spec.Groups[0]
	assert.Equal(t, "ss-alerts", group.Name)

	expectedAlerts := []string{
		"SellerStatsDown",
		"SellerStatsHealthzDown",
		"SellerStatsHighErrorRate",
		"SellerStatsLoaderErrors",
		"SellerStatsReportFailures",
		"SellerStatsExportFailures",
		"SellerStatsNotificationFailures",
		"SellerStatsWatchFailures",
		"SellerStatsRecordsDropped",
	}
	require.Len(t, group.Rules, len(expectedAlerts))
	for i, rule := range group.Rules {
		assert.Equal(t, expectedAlerts[i], rule.Alert)
		assert.NotEmpty(t, rule.Labels["severity"], "alert %s missing severity", rule.Alert)
		assert.NotEmpty(t, rule.Annotations["summary"], "alert %s missing summary", rule.Alert)
		assert.NotEmpty(t, rule.Annotations["description"], "alert %s missing description", rule.Alert)
	}

	result := validate.Rules(cr, KnownMetrics)
	assert.True(t, result.Ok(), "validation errors: %v", result.Errors)
	assert.Empty(t, result.Warnings)
}

func TestRun_WritesArtifacts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.OutputDir = dir

	var out bytes.Buffer
	require.NoError(t, run(cfg, false, &out))

	dashJSON, err := os.ReadFile(filepath.Join(dir, "grafana", "data", "ss-overview.json"))
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(dashJSON, &doc))
	assert.Equal(t, "ss-overview", doc["uid"])

	for _, name := range []string{"ss-recording-rules.yaml", "ss-alerts.yaml"} {
		data, err := os.ReadFile(filepath.Join(dir, "prometheus", name))
		require.NoError(t, err, name)
		assert.True(t, bytes.HasPrefix(data, []byte(generatedHeader)), name)

		var cr rules.PrometheusRule
		require.NoError(t, yaml.Unmarshal(data, &cr), name)
		assert.Equal(t, "PrometheusRule", cr.Kind)
	}

	assert.Contains(t, out.String(), "dashgen: wrote")
}

func TestRun_ValidateOnly(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "deploy")
	cfg := Config{OutputDir: dir, RulesEnabled: true}

	var out bytes.Buffer
	require.NoError(t, run(cfg, true, &out))
	assert.Equal(t, "validation passed\n", out.String())

	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestGenerate_RulesOnly(t *testing.T) {
	t.Parallel()

	artifacts, warnings, err := generate(Config{OutputDir: "x", RulesEnabled: true})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, artifacts, 2)
	assert.Equal(t, filepath.Join("prometheus", "ss-recording-rules.yaml"), artifacts[0].path)
	assert.Equal(t, filepath.Join("prometheus", "ss-alerts.yaml"), artifacts[1].path)
}
