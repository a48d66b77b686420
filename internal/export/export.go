// Package export renders result tables to XLSX workbooks and stores them
// in S3-compatible object storage or a local directory.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/wondersell/seller-stats/internal/metrics"
	domain "github.com/wondersell/seller-stats/pkg/types"
)

// ContentTypeXLSX is the media type of rendered workbooks.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ErrNoTables is returned when there is nothing to render.
var ErrNoTables = errors.New("no tables to export")

// ObjectPutter stores an object under key and returns where it ended up.
type ObjectPutter interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

// Exporter renders tables and hands the workbook to an ObjectPutter.
type Exporter struct {
	putter ObjectPutter
	log    *slog.Logger
	newID  func() string
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Exporter) {
		e.log = l
	}
}

// WithIDFunc overrides the generator of the unique part of object keys.
func WithIDFunc(fn func() string) Option {
	return func(e *Exporter) {
		e.newID = fn
	}
}

// NewExporter creates an Exporter writing through putter.
func NewExporter(putter ObjectPutter, opts ...Option) *Exporter {
	e := &Exporter{
		putter: putter,
		log:    slog.Default(),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result describes a stored export.
type Result struct {
	Key      string `json:"key"`
	Location string `json:"location"`
	Bytes    int    `json:"bytes"`
}

// Export renders tables into one workbook and stores it under
// "<prefix><id>.xlsx".
func (e *Exporter) Export(ctx context.Context, prefix string, tables ...domain.Table) (*Result, error) {
	body, err := Render(tables...)
	if err != nil {
		metrics.ExportsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	key := prefix + e.newID() + ".xlsx"
	location, err := e.putter.Put(ctx, key, body, ContentTypeXLSX)
	if err != nil {
		metrics.ExportsTotal.WithLabelValues("error").Inc()
		e.log.Error("export failed", "key", key, "error", err)
		return nil, fmt.Errorf("storing %s: %w", key, err)
	}

	metrics.ExportsTotal.WithLabelValues("success").Inc()
	metrics.ExportBytesTotal.Add(float64(len(body)))
	e.log.Info("export stored", "key", key, "location", location, "bytes", len(body))

	return &Result{Key: key, Location: location, Bytes: len(body)}, nil
}

// Render writes every table to its own sheet, header row first, and
// returns the workbook bytes.
func Render(tables ...domain.Table) ([]byte, error) {
	if len(tables) == 0 {
		return nil, ErrNoTables
	}

	f := excelize.NewFile()
	defer f.Close()

	defaultSheet := f.GetSheetName(0)
	for i, t := range tables {
		sheet := sheetName(t.Sheet, i)
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, sheet); err != nil {
				return nil, fmt.Errorf("naming sheet %q: %w", sheet, err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("creating sheet %q: %w", sheet, err)
		}

		if err := writeTable(f, sheet, t); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeTable(f *excelize.File, sheet string, t domain.Table) error {
	if len(t.Headers) > 0 {
		cell, _ := excelize.CoordinatesToCellName(1, 1)
		if err := f.SetSheetRow(sheet, cell, &t.Headers); err != nil {
			return fmt.Errorf("writing %s header: %w", sheet, err)
		}
	}

	offset := 1
	if len(t.Headers) == 0 {
		offset = 0
	}
	for i, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1+offset)
		if err != nil {
			return fmt.Errorf("addressing %s row %d: %w", sheet, i+1, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// Excel limits sheet names to 31 characters.
const maxSheetName = 31

func sheetName(name string, i int) string {
	if name == "" {
		return fmt.Sprintf("Sheet%d", i+1)
	}
	if r := []rune(name); len(r) > maxSheetName {
		return string(r[:maxSheetName])
	}
	return name
}
