// Package stats computes commerce statistics over a cleaned dataset:
// turnover, 30-day run-rate projections, top goods, price-bucketed sales
// distributions and market concentration.
package stats

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/wondersell/seller-stats/pkg/dataset"
	domain "github.com/wondersell/seller-stats/pkg/types"
)

// Defaults for the run-rate projection and rankings.
const (
	DefaultMinDays    = 30
	DefaultWindowDays = 30
	DefaultTopCount   = 5
)

const (
	unknownCategoryName = "Unknown category"
	unknownCategoryURL  = "–"
)

// CategoryStats derives metrics for the records of one category crawl.
// It writes derived fields into the dataset's records.
type CategoryStats struct {
	ds      *dataset.Dataset
	records []domain.Record
	log     *slog.Logger

	now        func() time.Time
	minDays    int
	windowDays int
	binning    []BinningOption

	basicDone   bool
	monthlyDone bool
}

// Option configures CategoryStats.
type Option func(*CategoryStats)

// WithClock overrides the time source used for record age.
func WithClock(now func() time.Time) Option {
	return func(s *CategoryStats) {
		s.now = now
	}
}

// WithMinDays sets the age in days a record must exceed to get a run-rate.
func WithMinDays(days int) Option {
	return func(s *CategoryStats) {
		s.minDays = days
	}
}

// WithWindowDays sets the run-rate window in days.
func WithWindowDays(days int) Option {
	return func(s *CategoryStats) {
		s.windowDays = days
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *CategoryStats) {
		s.log = l
	}
}

// WithBinningOptions passes options through to DistributionThresholds.
func WithBinningOptions(opts ...BinningOption) Option {
	return func(s *CategoryStats) {
		s.binning = opts
	}
}

// NewCategoryStats creates a CategoryStats over ds.
func NewCategoryStats(ds *dataset.Dataset, opts ...Option) *CategoryStats {
	s := &CategoryStats{
		ds:         ds,
		records:    ds.Records(),
		log:        slog.Default(),
		now:        time.Now,
		minDays:    DefaultMinDays,
		windowDays: DefaultWindowDays,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Records returns the records with whatever derived fields are computed.
func (s *CategoryStats) Records() []domain.Record {
	return s.records
}

// CalculateBasicStats sets SKU to 1 and Turnover to price * purchases on
// every record. Recomputing yields the same values.
func (s *CategoryStats) CalculateBasicStats() *CategoryStats {
	for i := range s.records {
		r := &s.records[i]
		r.SKU = 1
		r.Turnover = nil
		if r.Price != nil && r.Purchases != nil {
			t := *r.Price * float64(*r.Purchases)
			r.Turnover = &t
		}
	}
	s.basicDone = true
	return s
}

// CalculateMonthlyStats projects turnover and purchases onto the run-rate
// window for records older than the minimum age. Younger records, and those
// without a first review date, keep nil monthly fields but stay in the set.
func (s *CategoryStats) CalculateMonthlyStats() *CategoryStats {
	if !s.basicDone {
		s.CalculateBasicStats()
	}

	now := s.now().UTC()
	window := float64(s.windowDays)
	var qualified int

	for i := range s.records {
		r := &s.records[i]
		r.DaysSinceFirstReview = nil
		r.TurnoverMonth = nil
		r.PurchasesMonth = nil

		if r.FirstReview == nil {
			continue
		}

		days := int(math.Floor(now.Sub(r.FirstReview.UTC()).Hours() / 24))
		if days <= s.minDays {
			continue
		}

		r.DaysSinceFirstReview = &days
		if r.Turnover != nil {
			tm := *r.Turnover / float64(days) * window
			r.TurnoverMonth = &tm
		}
		if r.Purchases != nil {
			pm := float64(*r.Purchases) / float64(days) * window
			r.PurchasesMonth = &pm
		}
		qualified++
	}

	s.monthlyDone = true
	s.log.Debug("monthly stats calculated",
		"records", len(s.records),
		"qualified", qualified,
		"min_days", s.minDays,
	)
	return s
}

// TopGoods sums turnover per record ID and returns the count largest,
// ties broken by ID ascending. count <= 0 uses DefaultTopCount.
func (s *CategoryStats) TopGoods(count int) []domain.TopGood {
	if !s.basicDone {
		s.CalculateBasicStats()
	}
	if count <= 0 {
		count = DefaultTopCount
	}

	sums := make(map[string]float64)
	for i := range s.records {
		r := &s.records[i]
		if r.Turnover == nil {
			sums[r.ID] += 0
			continue
		}
		sums[r.ID] += *r.Turnover
	}

	goods := make([]domain.TopGood, 0, len(sums))
	for id, turnover := range sums {
		goods = append(goods, domain.TopGood{ID: id, Turnover: turnover})
	}
	sort.Slice(goods, func(i, j int) bool {
		if goods[i].Turnover != goods[j].Turnover {
			return goods[i].Turnover > goods[j].Turnover
		}
		return goods[i].ID < goods[j].ID
	})

	if len(goods) > count {
		goods = goods[:count]
	}
	return goods
}

// SalesDistribution buckets records by price and sums units, monthly
// turnover and monthly purchases per bucket. Every bucket is returned, in
// threshold order, including empty ones. Each record's Bin is set to its
// bucket label.
func (s *CategoryStats) SalesDistribution() (domain.Binning, []domain.DistributionRow, error) {
	if len(s.records) == 0 {
		return domain.Binning{}, nil, fmt.Errorf("%w: no records for sales distribution", dataset.ErrBadDataSet)
	}
	if !s.monthlyDone {
		s.CalculateMonthlyStats()
	}

	prices := make([]float64, 0, len(s.records))
	for i := range s.records {
		if p := s.records[i].Price; p != nil {
			prices = append(prices, *p)
		}
	}
	if len(prices) == 0 {
		return domain.Binning{}, nil, fmt.Errorf("%w: no prices for sales distribution", dataset.ErrBadDataSet)
	}

	binning, err := DistributionThresholds(prices, s.binning...)
	if err != nil {
		return domain.Binning{}, nil, fmt.Errorf("computing thresholds: %w", err)
	}

	rows := make([]domain.DistributionRow, len(binning.Labels))
	for i := range rows {
		rows[i] = domain.DistributionRow{
			Label: binning.Labels[i],
			Low:   binning.Thresholds[i],
			High:  binning.Thresholds[i+1],
		}
	}

	for i := range s.records {
		r := &s.records[i]
		if r.Price == nil {
			r.Bin = ""
			continue
		}
		row := &rows[bucketIndex(binning.Thresholds, *r.Price)]
		r.Bin = row.Label
		row.SKU += r.SKU
		if r.TurnoverMonth != nil {
			row.TurnoverMonth += *r.TurnoverMonth
		}
		if r.PurchasesMonth != nil {
			row.PurchasesMonth += *r.PurchasesMonth
		}
	}

	return binning, rows, nil
}

// HHI computes the Herfindahl-Hirschman index of monthly turnover over the
// partitions of field. Records with an empty key or without monthly turnover
// do not count towards any share or the total. HHI is nil when the total is
// zero.
func (s *CategoryStats) HHI(field string) (*domain.Concentration, error) {
	if len(s.records) == 0 {
		return nil, fmt.Errorf("%w: no records for concentration", dataset.ErrBadDataSet)
	}
	if !isGroupField(field) {
		return nil, fmt.Errorf("%w: field %q cannot be grouped", dataset.ErrBadDataSet, field)
	}
	if field != domain.FieldBin && !s.ds.HasColumn(field) {
		return nil, fmt.Errorf("%w: field %q not in dataset", dataset.ErrBadDataSet, field)
	}
	if field == domain.FieldBin {
		if _, _, err := s.SalesDistribution(); err != nil {
			return nil, err
		}
	}
	if !s.monthlyDone {
		s.CalculateMonthlyStats()
	}

	sums := make(map[string]float64)
	for i := range s.records {
		r := &s.records[i]
		key, ok := r.GroupKey(field)
		if !ok {
			continue
		}
		if r.TurnoverMonth == nil {
			sums[key] += 0
			continue
		}
		sums[key] += *r.TurnoverMonth
	}

	c := &domain.Concentration{Field: field, Groups: make([]domain.GroupShare, 0, len(sums))}
	for key, turnover := range sums {
		c.Groups = append(c.Groups, domain.GroupShare{Key: key, TurnoverMonth: turnover})
		c.TotalTurnover += turnover
	}
	sort.Slice(c.Groups, func(i, j int) bool {
		if c.Groups[i].TurnoverMonth != c.Groups[j].TurnoverMonth {
			return c.Groups[i].TurnoverMonth > c.Groups[j].TurnoverMonth
		}
		return c.Groups[i].Key < c.Groups[j].Key
	})

	if c.TotalTurnover == 0 {
		s.log.Warn("no monthly turnover to compute concentration", "field", field)
		return c, nil
	}

	var hhi float64
	for i := range c.Groups {
		share := c.Groups[i].TurnoverMonth / c.TotalTurnover * 100
		c.Groups[i].Share = share
		hhi += share * share
	}
	c.HHI = &hhi

	return c, nil
}

func isGroupField(field string) bool {
	switch field {
	case domain.FieldID, domain.FieldBrand, domain.FieldCategoryName,
		domain.FieldCategoryURL, domain.FieldName, domain.FieldURL, domain.FieldBin:
		return true
	default:
		return false
	}
}

// Totals sums units, turnover and the monthly projections over all records.
func (s *CategoryStats) Totals() domain.Totals {
	if !s.monthlyDone {
		s.CalculateMonthlyStats()
	}

	var t domain.Totals
	for i := range s.records {
		r := &s.records[i]
		t.SKU += r.SKU
		if r.Turnover != nil {
			t.Turnover += *r.Turnover
		}
		if r.TurnoverMonth != nil {
			t.TurnoverMonth += *r.TurnoverMonth
		}
		if r.PurchasesMonth != nil {
			t.PurchasesMonth += *r.PurchasesMonth
		}
	}
	return t
}

// CategoryName returns the category of the first record.
func (s *CategoryStats) CategoryName() string {
	if len(s.records) == 0 || !s.ds.HasColumn(domain.FieldCategoryName) {
		return unknownCategoryName
	}
	return s.records[0].CategoryName
}

// CategoryURL returns the category URL of the first record.
func (s *CategoryStats) CategoryURL() string {
	if len(s.records) == 0 || !s.ds.HasColumn(domain.FieldCategoryURL) {
		return unknownCategoryURL
	}
	return s.records[0].CategoryURL
}

// Report computes every statistic and bundles them. hhiField may be empty to
// skip the concentration index.
func (s *CategoryStats) Report(topCount int, hhiField string) (*domain.CategoryReport, error) {
	if len(s.records) == 0 {
		return nil, fmt.Errorf("%w: no records left after cleaning", dataset.ErrBadDataSet)
	}

	s.CalculateMonthlyStats()

	binning, distribution, err := s.SalesDistribution()
	if err != nil {
		return nil, err
	}

	report := &domain.CategoryReport{
		CategoryName: s.CategoryName(),
		CategoryURL:  s.CategoryURL(),
		Meta:         s.ds.Meta(),
		Totals:       s.Totals(),
		TopGoods:     s.TopGoods(topCount),
		Binning:      binning,
		Distribution: distribution,
		GeneratedAt:  s.now().UTC(),
	}

	if hhiField != "" {
		c, err := s.HHI(hhiField)
		if err != nil {
			return nil, err
		}
		report.Concentration = c
	}

	return report, nil
}
