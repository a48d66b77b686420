// Package report runs the category statistics and category diff pipelines:
// load, transform, clean, compute.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/wondersell/seller-stats/internal/loader"
	"github.com/wondersell/seller-stats/internal/metrics"
	"github.com/wondersell/seller-stats/pkg/catdiff"
	"github.com/wondersell/seller-stats/pkg/dataset"
	"github.com/wondersell/seller-stats/pkg/stats"
	domain "github.com/wondersell/seller-stats/pkg/types"
)

// Service computes category reports and diffs.
type Service struct {
	log      *slog.Logger
	now      func() time.Time
	topCount int
	hhiField string
	minDays  int
	window   int
	binning  []stats.BinningOption
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.log = l
	}
}

// WithClock overrides the time source used for record age.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithTopCount sets the default size of the top goods ranking.
func WithTopCount(n int) Option {
	return func(s *Service) {
		s.topCount = n
	}
}

// WithHHIField sets the default concentration grouping field.
func WithHHIField(field string) Option {
	return func(s *Service) {
		s.hhiField = field
	}
}

// WithRunRate sets the minimum record age and the projection window, in days.
func WithRunRate(minDays, windowDays int) Option {
	return func(s *Service) {
		s.minDays = minDays
		s.window = windowDays
	}
}

// WithBinning passes options through to the price distribution.
func WithBinning(opts ...stats.BinningOption) Option {
	return func(s *Service) {
		s.binning = opts
	}
}

// NewService creates a Service.
func NewService(opts ...Option) *Service {
	s := &Service{
		log:      slog.Default(),
		now:      time.Now,
		topCount: stats.DefaultTopCount,
		minDays:  stats.DefaultMinDays,
		window:   stats.DefaultWindowDays,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Params overrides the service defaults for one report. Zero values keep
// the defaults.
type Params struct {
	TopCount int
	HHIField string
	NoHHI    bool
}

// CategoryReport loads records with l and builds a report from them.
func (s *Service) CategoryReport(ctx context.Context, l loader.Loader, p Params) (*domain.CategoryReport, error) {
	raw, err := l.Load(ctx)
	if err != nil {
		metrics.ReportsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("loading records: %w", err)
	}
	return s.Build(raw, p)
}

// Build cleans raw records and computes every statistic over them.
func (s *Service) Build(raw []domain.RawRecord, p Params) (*domain.CategoryReport, error) {
	start := time.Now()
	defer func() {
		metrics.ReportDuration.Observe(time.Since(start).Seconds())
	}()

	report, err := s.build(raw, p)
	if err != nil {
		metrics.ReportsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.ReportsTotal.WithLabelValues("success").Inc()
	return report, nil
}

func (s *Service) build(raw []domain.RawRecord, p Params) (*domain.CategoryReport, error) {
	ds, err := dataset.New(raw, dataset.CategorySchema(), dataset.WithLogger(s.log))
	if err != nil {
		return nil, fmt.Errorf("cleaning records: %w", err)
	}

	meta := ds.Meta()
	metrics.RecordsRemovedTotal.Add(float64(meta.CountRemoved))
	for _, w := range meta.Warnings {
		s.log.Warn("dataset warning", "warning", w)
	}

	cs := stats.NewCategoryStats(ds,
		stats.WithLogger(s.log),
		stats.WithClock(s.now),
		stats.WithMinDays(s.minDays),
		stats.WithWindowDays(s.window),
		stats.WithBinningOptions(s.binning...),
	)

	top := s.topCount
	if p.TopCount > 0 {
		top = p.TopCount
	}
	field := s.hhiField
	if p.HHIField != "" {
		field = p.HHIField
	}
	if p.NoHHI {
		field = ""
	}

	report, err := cs.Report(top, field)
	if err != nil {
		return nil, fmt.Errorf("computing report: %w", err)
	}

	s.log.Info("category report built",
		"category", report.CategoryName,
		"count_raw", meta.CountRaw,
		"count_clean", meta.CountClean,
		"sku", report.Totals.SKU,
	)
	return report, nil
}

// DiffSummary counts the entries of one diff kind.
type DiffSummary struct {
	Kind        catdiff.Kind `json:"kind"`
	Count       int          `json:"count"`
	UniqueCount int          `json:"unique_count"`
}

// CategoryDiff loads two category list snapshots and compares them.
func (s *Service) CategoryDiff(ctx context.Context, older, newer loader.Loader) (*catdiff.Updates, error) {
	oldItems, err := older.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading old categories: %w", err)
	}
	newItems, err := newer.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading new categories: %w", err)
	}
	return s.Diff(oldItems, newItems)
}

// Diff compares two category list snapshots given as crawler items.
func (s *Service) Diff(oldItems, newItems []domain.RawRecord) (*catdiff.Updates, error) {
	return s.DiffCategories(
		catdiff.CategoriesFromItems(oldItems),
		catdiff.CategoriesFromItems(newItems),
	)
}

// DiffCategories compares two category list snapshots.
func (s *Service) DiffCategories(older, newer []domain.Category) (*catdiff.Updates, error) {
	if len(older) == 0 && len(newer) == 0 {
		return nil, fmt.Errorf("%w: both category snapshots are empty", dataset.ErrBadDataSet)
	}

	u := catdiff.New(older, newer).Calculate()

	summaries, err := Summarize(u)
	if err != nil {
		return nil, err
	}
	attrs := make([]any, 0, 2*len(summaries))
	for _, sum := range summaries {
		metrics.CategoryDiffEntries.WithLabelValues(string(sum.Kind)).Set(float64(sum.Count))
		attrs = append(attrs, string(sum.Kind), sum.Count)
	}
	s.log.Info("category diff calculated", attrs...)

	return u, nil
}

// Summarize counts every diff kind of u.
func Summarize(u *catdiff.Updates) ([]DiffSummary, error) {
	out := make([]DiffSummary, 0, len(catdiff.Kinds()))
	for _, kind := range catdiff.Kinds() {
		count, err := u.Count(kind)
		if err != nil {
			return nil, err
		}
		unique, err := u.UniqueCount(kind)
		if err != nil {
			return nil, err
		}
		out = append(out, DiffSummary{Kind: kind, Count: count, UniqueCount: unique})
	}
	return out, nil
}
