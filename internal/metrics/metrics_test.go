package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistered(t *testing.T) {
	t.Parallel()

	// Registered via promauto on package init.
	assert.NotNil(t, HTTPRequestDuration)
	assert.NotNil(t, HTTPRequestsTotal)
	assert.NotNil(t, HealthzUp)
	assert.NotNil(t, RecordsLoadedTotal)
	assert.NotNil(t, RecordsRemovedTotal)
	assert.NotNil(t, LoaderErrorsTotal)
	assert.NotNil(t, ScrapinghubRequestsTotal)
	assert.NotNil(t, ReportDuration)
	assert.NotNil(t, ReportsTotal)
	assert.NotNil(t, CategoryDiffEntries)
	assert.NotNil(t, ExportsTotal)
	assert.NotNil(t, ExportBytesTotal)
	assert.NotNil(t, NotificationsTotal)
	assert.NotNil(t, WatchRunsTotal)
	assert.NotNil(t, WatchDuration)
}

func TestCategoryDiffEntries(t *testing.T) {
	t.Parallel()

	CategoryDiffEntries.WithLabelValues("test_kind").Set(7)
	assert.InDelta(t, 7.0, testutil.ToFloat64(CategoryDiffEntries.WithLabelValues("test_kind")), 1e-9)
}
