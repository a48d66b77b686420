// Package engine runs category watches: for each watched Scrapinghub project
// it compares the two most recent finished crawls, exports the diff and
// posts a notice when categories were added or removed.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/wondersell/seller-stats/internal/export"
	"github.com/wondersell/seller-stats/internal/loader"
	"github.com/wondersell/seller-stats/internal/metrics"
	"github.com/wondersell/seller-stats/internal/notify"
	"github.com/wondersell/seller-stats/internal/report"
	"github.com/wondersell/seller-stats/pkg/catdiff"
	domain "github.com/wondersell/seller-stats/pkg/types"
)

// Source lists finished crawl jobs and reads their items.
// *loader.Scrapinghub implements it.
type Source interface {
	FinishedJobs(ctx context.Context, project, tag string, count int) ([]string, error)
	Items(ctx context.Context, jobKey string) ([]domain.RawRecord, error)
}

// Exporter stores rendered diff tables.
type Exporter interface {
	Export(ctx context.Context, prefix string, tables ...domain.Table) (*export.Result, error)
}

// Watch is one watched project.
type Watch struct {
	Project string       `json:"project"`
	Tag     string       `json:"tag"`
	Kind    catdiff.Kind `json:"kind"`
	Export  bool         `json:"export"`
	Notify  bool         `json:"notify"`
}

func (w Watch) key() string {
	return w.Project + "/" + w.Tag
}

// Status is the outcome of one watch run.
type Status string

// Watch run outcomes.
const (
	StatusCompared Status = "compared"
	StatusSkipped  Status = "skipped"
	StatusFailed   Status = "failed"
)

// Result describes one watch run.
type Result struct {
	Watch    Watch          `json:"watch"`
	Status   Status         `json:"status"`
	Older    string         `json:"older,omitempty"`
	Newer    string         `json:"newer,omitempty"`
	Added    int            `json:"added"`
	Removed  int            `json:"removed"`
	Export   *export.Result `json:"export,omitempty"`
	Notified bool           `json:"notified"`
	Error    string         `json:"error,omitempty"`
	Err      error          `json:"-"`
}

// Engine runs category watches against a crawl source.
type Engine struct {
	source   Source
	svc      *report.Service
	exporter Exporter
	notifier notify.Notifier
	watches  []Watch
	log      *slog.Logger

	staggerOffset time.Duration

	mu   sync.Mutex
	seen map[string]string
}

// NewEngine creates a new Engine with injected dependencies. exporter may be
// nil, in which case watches with Export set fail.
func NewEngine(
	src Source,
	svc *report.Service,
	exporter Exporter,
	n notify.Notifier,
	watches []Watch,
	opts ...EngineOption,
) *Engine {
	eng := &Engine{
		source:        src,
		svc:           svc,
		exporter:      exporter,
		notifier:      n,
		watches:       watches,
		log:           slog.Default(),
		staggerOffset: 5 * time.Second,
		seen:          make(map[string]string),
	}
	for _, opt := range opts {
		opt(eng)
	}
	return eng
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

// WithStaggerOffset sets the delay between processing each watch.
func WithStaggerOffset(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.staggerOffset = d
	}
}

// RunWatches processes every watch once. A failing watch is logged and does
// not stop the others; the returned error is only set when ctx is done.
func (eng *Engine) RunWatches(ctx context.Context) ([]Result, error) {
	start := time.Now()
	defer func() {
		metrics.WatchDuration.Observe(time.Since(start).Seconds())
	}()

	results := make([]Result, 0, len(eng.watches))
	for i, w := range eng.watches {
		if ctx.Err() != nil {
			return results, ctx.Err()
		}

		eng.log.Info("processing watch", "project", w.Project, "tag", w.Tag)

		res := eng.processWatch(ctx, w)
		switch res.Status {
		case StatusFailed:
			eng.log.Error("watch processing failed", "project", w.Project, "tag", w.Tag, "error", res.Err)
			metrics.WatchRunsTotal.WithLabelValues("error").Inc()
		case StatusSkipped:
			metrics.WatchRunsTotal.WithLabelValues("skipped").Inc()
		default:
			metrics.WatchRunsTotal.WithLabelValues("success").Inc()
		}
		results = append(results, res)

		// Stagger between watches to avoid API bursts.
		if i < len(eng.watches)-1 && eng.staggerOffset > 0 {
			select {
			case <-ctx.Done():
				return results, ctx.Err()
			case <-time.After(eng.staggerOffset):
			}
		}
	}

	return results, nil
}

func (eng *Engine) processWatch(ctx context.Context, w Watch) Result {
	res := Result{Watch: w}
	fail := func(err error) Result {
		res.Status = StatusFailed
		res.Err = err
		res.Error = err.Error()
		return res
	}

	keys, err := eng.source.FinishedJobs(ctx, w.Project, w.Tag, 2)
	if err != nil {
		return fail(fmt.Errorf("listing jobs: %w", err))
	}
	if len(keys) < 2 {
		eng.log.Info("not enough finished jobs yet", "project", w.Project, "tag", w.Tag, "found", len(keys))
		res.Status = StatusSkipped
		return res
	}
	res.Newer, res.Older = keys[0], keys[1]

	if eng.lastSeen(w) == res.Newer {
		eng.log.Debug("latest job already compared", "project", w.Project, "job", res.Newer)
		res.Status = StatusSkipped
		return res
	}

	u, err := eng.compare(ctx, res.Older, res.Newer)
	if err != nil {
		return fail(err)
	}

	notice := &notify.DiffNotice{Source: "scrapinghub " + res.Older + " -> " + res.Newer}
	if notice.Added, err = u.Entries(catdiff.KindAdded); err != nil {
		return fail(err)
	}
	if notice.Removed, err = u.Entries(catdiff.KindRemoved); err != nil {
		return fail(err)
	}
	res.Added, res.Removed = len(notice.Added), len(notice.Removed)

	if w.Export {
		if eng.exporter == nil {
			return fail(errors.New("export requested but no exporter is configured"))
		}
		table, err := u.Table(w.Kind)
		if err != nil {
			return fail(err)
		}
		if res.Export, err = eng.exporter.Export(ctx, string(w.Kind)+"_", table); err != nil {
			return fail(fmt.Errorf("exporting diff: %w", err))
		}
		notice.ExportURL = res.Export.Location
	}

	if w.Notify && !notice.Empty() {
		if err := eng.notifier.SendDiff(ctx, notice); err != nil {
			return fail(fmt.Errorf("sending diff notification: %w", err))
		}
		res.Notified = true
	}

	eng.markSeen(w, res.Newer)
	res.Status = StatusCompared
	eng.log.Info("watch compared",
		"project", w.Project,
		"older", res.Older,
		"newer", res.Newer,
		"added", res.Added,
		"removed", res.Removed,
	)
	return res
}

func (eng *Engine) compare(ctx context.Context, older, newer string) (*catdiff.Updates, error) {
	newItems, err := eng.source.Items(ctx, newer)
	if err != nil {
		return nil, fmt.Errorf("loading job %s items: %w", newer, err)
	}
	oldItems, err := eng.source.Items(ctx, older)
	if err != nil {
		return nil, fmt.Errorf("loading job %s items: %w", older, err)
	}
	return eng.svc.Diff(oldItems, newItems)
}

func (eng *Engine) lastSeen(w Watch) string {
	eng.mu.Lock()
	defer eng.mu.Unlock()
	return eng.seen[w.key()]
}

func (eng *Engine) markSeen(w Watch, job string) {
	eng.mu.Lock()
	defer eng.mu.Unlock()
	eng.seen[w.key()] = job
}

var _ Source = (*loader.Scrapinghub)(nil)
