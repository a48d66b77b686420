// Package loader reads raw crawl records from files and from Scrapinghub
// job storage, applying a key transformer to every record.
package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/wondersell/seller-stats/internal/metrics"
	"github.com/wondersell/seller-stats/pkg/transform"
	domain "github.com/wondersell/seller-stats/pkg/types"
)

var (
	// ErrNotReady is returned when a crawl job has not finished yet.
	ErrNotReady = errors.New("job not ready")

	// ErrNoAPIKey is returned when no Scrapinghub API key is configured.
	ErrNoAPIKey = errors.New("scrapinghub API key not set")

	// ErrUnknownFormat is returned for file formats no loader handles.
	ErrUnknownFormat = errors.New("unknown file format")
)

// Loader produces raw records.
type Loader interface {
	Load(ctx context.Context) ([]domain.RawRecord, error)
}

// Option configures the shared loader settings.
type Option func(*base)

// WithTransformer sets the transformer applied to every loaded record.
func WithTransformer(t transform.Transformer) Option {
	return func(b *base) {
		b.transformer = t
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *base) {
		b.log = l
	}
}

type base struct {
	source      string
	transformer transform.Transformer
	log         *slog.Logger
}

func newBase(source string, opts []Option) base {
	b := base{
		source:      source,
		transformer: transform.Empty(),
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

func (b *base) finish(items []domain.RawRecord, err error) ([]domain.RawRecord, error) {
	if err != nil {
		metrics.LoaderErrorsTotal.WithLabelValues(b.source).Inc()
		b.log.Error("load failed", "source", b.source, "error", err)
		return nil, err
	}

	items = b.transformer.TransformAll(items)
	metrics.RecordsLoadedTotal.WithLabelValues(b.source).Add(float64(len(items)))
	b.log.Info("items loaded",
		"source", b.source,
		"count", len(items),
		"transformer", b.transformer.Name,
	)
	return items, nil
}

// Format names accepted by Open.
const (
	FormatCSV   = "csv"
	FormatJSONL = "jsonl"
)

// Open returns a file loader for path. An empty format is inferred from
// the file extension.
func Open(path, format string, opts ...Option) (Loader, error) {
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}

	switch strings.ToLower(format) {
	case FormatCSV:
		return NewCSVFile(path, opts...), nil
	case FormatJSONL, "json", "jl", "ndjson":
		return NewJSONLinesFile(path, opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
