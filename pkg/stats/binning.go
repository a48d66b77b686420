package stats

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"

	domain "github.com/wondersell/seller-stats/pkg/types"
)

var (
	// ErrEmptySeries is returned when binning is asked for an empty series.
	ErrEmptySeries = errors.New("empty series")

	// ErrInvalidArgument is returned for unusable operation arguments.
	ErrInvalidArgument = errors.New("invalid argument")
)

// DefaultBuckets is the default number of price buckets.
const DefaultBuckets = 6

// DefaultBucketWidths returns the candidate bucket widths, smallest first.
func DefaultBucketWidths() []float64 {
	return []float64{10, 50, 100, 250, 500, 1000, 5000, 10000, 50000, 100000}
}

type binningConfig struct {
	buckets int
	widths  []float64
}

// BinningOption configures DistributionThresholds.
type BinningOption func(*binningConfig)

// WithBuckets sets the number of buckets.
func WithBuckets(n int) BinningOption {
	return func(c *binningConfig) {
		c.buckets = n
	}
}

// WithBucketWidths sets the candidate bucket widths.
func WithBucketWidths(widths []float64) BinningOption {
	return func(c *binningConfig) {
		c.widths = widths
	}
}

// DistributionThresholds picks a bucket width for series and returns the
// bucket thresholds with their labels.
//
// The width is the largest candidate whose span (buckets-1)*width does not
// exceed the 95th percentile, so a few outliers cannot stretch the buckets.
// One last threshold above the series maximum closes the open-ended bucket.
func DistributionThresholds(series []float64, opts ...BinningOption) (domain.Binning, error) {
	cfg := binningConfig{
		buckets: DefaultBuckets,
		widths:  DefaultBucketWidths(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.buckets < 1 {
		return domain.Binning{}, fmt.Errorf("%w: bucket count must be positive, got %d",
			ErrInvalidArgument, cfg.buckets)
	}
	if len(cfg.widths) == 0 {
		return domain.Binning{}, fmt.Errorf("%w: no candidate bucket widths", ErrInvalidArgument)
	}
	if len(series) == 0 {
		return domain.Binning{}, ErrEmptySeries
	}
	if i := slices.IndexFunc(series, func(v float64) bool {
		return math.IsNaN(v) || math.IsInf(v, 0)
	}); i >= 0 {
		return domain.Binning{}, fmt.Errorf("%w: series value %d is not finite: %v",
			ErrInvalidArgument, i, series[i])
	}

	width := pickWidth(Percentile(series, 95), cfg.buckets, cfg.widths)

	thresholds := make([]float64, 0, cfg.buckets+1)
	for i := range cfg.buckets {
		thresholds = append(thresholds, float64(i)*width)
	}
	last := thresholds[len(thresholds)-1]
	thresholds = append(thresholds, math.Max(slices.Max(series), last)+1)

	return domain.Binning{
		Thresholds: thresholds,
		Labels:     labels(thresholds),
	}, nil
}

// pickWidth returns the candidate with the largest non-positive span error.
// When every span overshoots p95 it falls back to the smallest overshoot.
func pickWidth(p95 float64, buckets int, widths []float64) float64 {
	spanError := func(w float64) float64 {
		return w*float64(buckets-1) - p95
	}

	best, bestErr := 0.0, math.Inf(-1)
	fallback, fallbackErr := 0.0, math.Inf(1)
	for _, w := range widths {
		e := spanError(w)
		if e <= 0 {
			if e > bestErr {
				best, bestErr = w, e
			}
			continue
		}
		if e < fallbackErr {
			fallback, fallbackErr = w, e
		}
	}

	if math.IsInf(bestErr, -1) {
		return fallback
	}
	return best
}

func labels(thresholds []float64) []string {
	out := make([]string, 0, len(thresholds)-1)
	for i := 0; i < len(thresholds)-2; i++ {
		out = append(out, formatBound(thresholds[i])+"-"+formatBound(thresholds[i+1]))
	}
	return append(out, ">"+formatBound(thresholds[len(thresholds)-2]))
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// bucketIndex returns the bucket holding v: thresholds[i] <= v < thresholds[i+1].
// Values below the first threshold fall into the first bucket and values at
// or above the last into the last one.
func bucketIndex(thresholds []float64, v float64) int {
	n := len(thresholds) - 1
	i, found := slices.BinarySearch(thresholds, v)
	if !found {
		i--
	}
	return min(max(i, 0), n-1)
}
