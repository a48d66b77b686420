package loader

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	domain "github.com/wondersell/seller-stats/pkg/types"
)

// JSONLinesLoader reads one JSON object per line. A single top-level JSON
// array of objects is accepted too.
type JSONLinesLoader struct {
	base
	path   string
	reader io.Reader
}

// NewJSONLinesFile creates a loader for the JSON lines file at path.
func NewJSONLinesFile(path string, opts ...Option) *JSONLinesLoader {
	return &JSONLinesLoader{base: newBase("jsonl", opts), path: path}
}

// NewJSONLinesReader creates a loader reading JSON lines from r.
func NewJSONLinesReader(r io.Reader, opts ...Option) *JSONLinesLoader {
	return &JSONLinesLoader{base: newBase("jsonl", opts), reader: r}
}

// Load implements Loader.
func (l *JSONLinesLoader) Load(ctx context.Context) ([]domain.RawRecord, error) {
	l.log.Info("loading items from JSON lines", "path", l.path)

	r := l.reader
	if r == nil {
		f, err := os.Open(l.path)
		if err != nil {
			return l.finish(nil, fmt.Errorf("opening JSON lines file: %w", err))
		}
		defer f.Close()
		r = f
	}

	return l.finish(decodeJSONLines(ctx, r))
}

func decodeJSONLines(ctx context.Context, r io.Reader) ([]domain.RawRecord, error) {
	br := bufio.NewReader(r)
	dec := json.NewDecoder(br)

	first, err := peekNonSpace(br)
	if errors.Is(err, io.EOF) {
		return []domain.RawRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading JSON: %w", err)
	}

	if first == '[' {
		var items []domain.RawRecord
		if err := dec.Decode(&items); err != nil {
			return nil, fmt.Errorf("decoding JSON array: %w", err)
		}
		if items == nil {
			items = []domain.RawRecord{}
		}
		return items, nil
	}

	items := []domain.RawRecord{}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var item domain.RawRecord
		err := dec.Decode(&item)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding JSON line %d: %w", len(items)+1, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b, br.UnreadByte()
	}
}
