package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	domain "github.com/wondersell/seller-stats/pkg/types"
)

const utf8BOM = "\uFEFF"

// CSVLoader reads header-keyed rows. Every value is kept as a string;
// typing happens in the dataset.
type CSVLoader struct {
	base
	path   string
	reader io.Reader
}

// NewCSVFile creates a loader for the CSV file at path.
func NewCSVFile(path string, opts ...Option) *CSVLoader {
	return &CSVLoader{base: newBase("csv", opts), path: path}
}

// NewCSVReader creates a loader reading CSV from r.
func NewCSVReader(r io.Reader, opts ...Option) *CSVLoader {
	return &CSVLoader{base: newBase("csv", opts), reader: r}
}

// Load implements Loader.
func (l *CSVLoader) Load(ctx context.Context) ([]domain.RawRecord, error) {
	l.log.Info("loading items from CSV", "path", l.path)

	r := l.reader
	if r == nil {
		f, err := os.Open(l.path)
		if err != nil {
			return l.finish(nil, fmt.Errorf("opening CSV file: %w", err))
		}
		defer f.Close()
		r = f
	}

	return l.finish(readCSV(ctx, r))
}

func readCSV(ctx context.Context, r io.Reader) ([]domain.RawRecord, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []domain.RawRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	keys := make([]string, len(header))
	for i, h := range header {
		keys[i] = strings.TrimSpace(h)
	}
	if len(keys) > 0 {
		keys[0] = strings.TrimPrefix(keys[0], utf8BOM)
	}

	var items []domain.RawRecord
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row %d: %w", len(items)+1, err)
		}

		item := make(domain.RawRecord, len(keys))
		for i, k := range keys {
			item[k] = row[i]
		}
		items = append(items, item)
	}

	if items == nil {
		items = []domain.RawRecord{}
	}
	return items, nil
}
