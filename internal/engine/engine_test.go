package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	ptestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	engineMocks "github.com/wondersell/seller-stats/internal/engine/mocks"
	"github.com/wondersell/seller-stats/internal/export"
	exportMocks "github.com/wondersell/seller-stats/internal/export/mocks"
	"github.com/wondersell/seller-stats/internal/metrics"
	"github.com/wondersell/seller-stats/internal/notify"
	notifyMocks "github.com/wondersell/seller-stats/internal/notify/mocks"
	"github.com/wondersell/seller-stats/internal/report"
	"github.com/wondersell/seller-stats/pkg/catdiff"
	domain "github.com/wondersell/seller-stats/pkg/types"
)

// quietLogger returns a logger that discards output for tests.
func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func category(name, url string) domain.RawRecord {
	return domain.RawRecord{"wb_category_name": name, "wb_category_url": url}
}

var (
	olderItems = []domain.RawRecord{
		category("Платья", "https://www.wildberries.ru/catalog/platya"),
		category("Юбки", "https://www.wildberries.ru/catalog/yubki"),
	}
	newerItems = []domain.RawRecord{
		category("Платья", "https://www.wildberries.ru/catalog/platya"),
		category("Новинки", "https://www.wildberries.ru/catalog/novinki"),
		category("Акции", "https://www.wildberries.ru/promotions/sale"),
	}
)

func newTestEngine(
	src *engineMocks.MockSource,
	exp Exporter,
	n *notifyMocks.MockNotifier,
	watches ...Watch,
) *Engine {
	return NewEngine(src, report.NewService(report.WithLogger(quietLogger())), exp, n, watches,
		WithLogger(quietLogger()),
		WithStaggerOffset(0),
	)
}

func expectJobs(src *engineMocks.MockSource, project string) {
	src.EXPECT().FinishedJobs(mock.Anything, project, "daily_categories", 2).
		Return([]string{project + "/1/737", project + "/1/735"}, nil)
	src.EXPECT().Items(mock.Anything, project+"/1/737").Return(newerItems, nil)
	src.EXPECT().Items(mock.Anything, project+"/1/735").Return(olderItems, nil)
}

func TestNewEngine_Defaults(t *testing.T) {
	t.Parallel()

	eng := NewEngine(engineMocks.NewMockSource(t), report.NewService(), nil, notifyMocks.NewMockNotifier(t), nil)
	assert.Equal(t, 5*time.Second, eng.staggerOffset)
	assert.NotNil(t, eng.log)
	assert.NotNil(t, eng.seen)
}

func TestRunWatches_ComparesAndNotifies(t *testing.T) {
	t.Parallel()

	src := engineMocks.NewMockSource(t)
	n := notifyMocks.NewMockNotifier(t)
	expectJobs(src, "414324")

	var sent *notify.DiffNotice
	n.EXPECT().SendDiff(mock.Anything, mock.AnythingOfType("*notify.DiffNotice")).
		Run(func(_ context.Context, notice *notify.DiffNotice) { sent = notice }).
		Return(nil)

	eng := newTestEngine(src, nil, n, Watch{
		Project: "414324",
		Tag:     "daily_categories",
		Kind:    catdiff.KindFull,
		Notify:  true,
	})

	results, err := eng.RunWatches(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)

	res := results[0]
	assert.Equal(t, StatusCompared, res.Status)
	assert.Equal(t, "414324/1/735", res.Older)
	assert.Equal(t, "414324/1/737", res.Newer)
	assert.Equal(t, 2, res.Added)
	assert.Equal(t, 1, res.Removed)
	assert.True(t, res.Notified)
	assert.NoError(t, res.Err)

	require.NotNil(t, sent)
	assert.Equal(t, "scrapinghub 414324/1/735 -> 414324/1/737", sent.Source)
	assert.Len(t, sent.Added, 2)
	require.Len(t, sent.Removed, 1)
	assert.Equal(t, "Юбки", sent.Removed[0].Name)
	assert.Empty(t, sent.ExportURL)
}

func TestRunWatches_SkipsAlreadyComparedJob(t *testing.T) {
	t.Parallel()

	src := engineMocks.NewMockSource(t)
	expectJobs(src, "1")

	eng := newTestEngine(src, nil, notifyMocks.NewMockNotifier(t), Watch{
		Project: "1",
		Tag:     "daily_categories",
		Kind:    catdiff.KindFull,
	})

	first, err := eng.RunWatches(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusCompared, first[0].Status)
	assert.False(t, first[0].Notified)

	second, err := eng.RunWatches(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusSkipped, second[0].Status)

	src.AssertNumberOfCalls(t, "FinishedJobs", 2)
	src.AssertNumberOfCalls(t, "Items", 2)
}

func TestRunWatches_NotEnoughJobs(t *testing.T) {
	t.Parallel()

	src := engineMocks.NewMockSource(t)
	src.EXPECT().FinishedJobs(mock.Anything, "2", "wb", 2).Return([]string{"2/1/1"}, nil)

	eng := newTestEngine(src, nil, notifyMocks.NewMockNotifier(t), Watch{Project: "2", Tag: "wb", Kind: catdiff.KindFull})

	results, err := eng.RunWatches(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, StatusSkipped, results[0].Status)
}

func TestRunWatches_Export(t *testing.T) {
	t.Parallel()

	src := engineMocks.NewMockSource(t)
	expectJobs(src, "3")

	putter := exportMocks.NewMockObjectPutter(t)
	putter.EXPECT().
		Put(mock.Anything, "added_abc.xlsx", mock.Anything, export.ContentTypeXLSX).
		Return("s3://reports/added_abc.xlsx", nil)
	exp := export.NewExporter(putter,
		export.WithLogger(quietLogger()),
		export.WithIDFunc(func() string { return "abc" }),
	)

	n := notifyMocks.NewMockNotifier(t)
	n.EXPECT().SendDiff(mock.Anything, mock.MatchedBy(func(notice *notify.DiffNotice) bool {
		return notice.ExportURL == "s3://reports/added_abc.xlsx"
	})).Return(nil)

	eng := newTestEngine(src, exp, n, Watch{
		Project: "3",
		Tag:     "daily_categories",
		Kind:    catdiff.KindAdded,
		Export:  true,
		Notify:  true,
	})

	results, err := eng.RunWatches(context.Background())
	require.NoError(t, err)
	require.NotNil(t, results[0].Export)
	assert.Equal(t, "added_abc.xlsx", results[0].Export.Key)
	assert.True(t, results[0].Notified)
}

func TestRunWatches_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		setup   func(src *engineMocks.MockSource, n *notifyMocks.MockNotifier)
		watch   Watch
		wantErr string
	}{
		{
			name: "job list error",
			setup: func(src *engineMocks.MockSource, _ *notifyMocks.MockNotifier) {
				src.EXPECT().FinishedJobs(mock.Anything, "4", "daily_categories", 2).
					Return(nil, errors.New("unauthorized"))
			},
			watch:   Watch{Project: "4", Tag: "daily_categories", Kind: catdiff.KindFull},
			wantErr: "listing jobs: unauthorized",
		},
		{
			name: "items error",
			setup: func(src *engineMocks.MockSource, _ *notifyMocks.MockNotifier) {
				src.EXPECT().FinishedJobs(mock.Anything, "5", "daily_categories", 2).
					Return([]string{"5/1/2", "5/1/1"}, nil)
				src.EXPECT().Items(mock.Anything, "5/1/2").Return(nil, errors.New("timeout"))
			},
			watch:   Watch{Project: "5", Tag: "daily_categories", Kind: catdiff.KindFull},
			wantErr: "loading job 5/1/2 items: timeout",
		},
		{
			name: "export without exporter",
			setup: func(src *engineMocks.MockSource, _ *notifyMocks.MockNotifier) {
				expectJobs(src, "6")
			},
			watch:   Watch{Project: "6", Tag: "daily_categories", Kind: catdiff.KindFull, Export: true},
			wantErr: "no exporter is configured",
		},
		{
			name: "notification error",
			setup: func(src *engineMocks.MockSource, n *notifyMocks.MockNotifier) {
				expectJobs(src, "7")
				n.EXPECT().SendDiff(mock.Anything, mock.Anything).Return(errors.New("webhook gone"))
			},
			watch:   Watch{Project: "7", Tag: "daily_categories", Kind: catdiff.KindFull, Notify: true},
			wantErr: "sending diff notification: webhook gone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := engineMocks.NewMockSource(t)
			n := notifyMocks.NewMockNotifier(t)
			tt.setup(src, n)

			eng := newTestEngine(src, nil, n, tt.watch)
			results, err := eng.RunWatches(context.Background())
			require.NoError(t, err)
			require.Len(t, results, 1)
			assert.Equal(t, StatusFailed, results[0].Status)
			require.Error(t, results[0].Err)
			assert.Contains(t, results[0].Err.Error(), tt.wantErr)
			assert.Empty(t, eng.lastSeen(tt.watch))
		})
	}
}

func TestRunWatches_ContinuesAfterFailure(t *testing.T) {
	t.Parallel()

	src := engineMocks.NewMockSource(t)
	src.EXPECT().FinishedJobs(mock.Anything, "8", "daily_categories", 2).Return(nil, errors.New("boom"))
	expectJobs(src, "9")

	eng := newTestEngine(src, nil, notifyMocks.NewMockNotifier(t),
		Watch{Project: "8", Tag: "daily_categories", Kind: catdiff.KindFull},
		Watch{Project: "9", Tag: "daily_categories", Kind: catdiff.KindFull},
	)

	results, err := eng.RunWatches(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, StatusFailed, results[0].Status)
	assert.Equal(t, StatusCompared, results[1].Status)
}

func TestRunWatches_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	eng := newTestEngine(engineMocks.NewMockSource(t), nil, notifyMocks.NewMockNotifier(t),
		Watch{Project: "10", Tag: "daily_categories", Kind: catdiff.KindFull},
	)

	results, err := eng.RunWatches(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
}

// Not parallel: reads global counters.
func TestRunWatches_Metrics(t *testing.T) {
	src := engineMocks.NewMockSource(t)
	src.EXPECT().FinishedJobs(mock.Anything, "11", "daily_categories", 2).Return([]string{"11/1/1"}, nil)
	src.EXPECT().FinishedJobs(mock.Anything, "12", "daily_categories", 2).Return(nil, errors.New("boom"))

	eng := newTestEngine(src, nil, notifyMocks.NewMockNotifier(t),
		Watch{Project: "11", Tag: "daily_categories", Kind: catdiff.KindFull},
		Watch{Project: "12", Tag: "daily_categories", Kind: catdiff.KindFull},
	)

	skipped := ptestutil.ToFloat64(metrics.WatchRunsTotal.WithLabelValues("skipped"))
	failed := ptestutil.ToFloat64(metrics.WatchRunsTotal.WithLabelValues("error"))

	_, err := eng.RunWatches(context.Background())
	require.NoError(t, err)

	assert.InDelta(t, skipped+1, ptestutil.ToFloat64(metrics.WatchRunsTotal.WithLabelValues("skipped")), 1e-9)
	assert.InDelta(t, failed+1, ptestutil.ToFloat64(metrics.WatchRunsTotal.WithLabelValues("error")), 1e-9)
}
