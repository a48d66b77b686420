// Package dataset turns raw crawl records into a validated, typed record set.
// Cleaning runs once, at construction, and is driven entirely by a Schema.
package dataset

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sort"
	"strings"
	"time"

	domain "github.com/wondersell/seller-stats/pkg/types"
)

var (
	// ErrBadDataSet is returned when a dataset is empty or lacks a column an
	// operation depends on.
	ErrBadDataSet = errors.New("bad data set")

	// ErrTypeCoercion is returned when a value cannot be converted to its
	// declared type after null normalization.
	ErrTypeCoercion = errors.New("type coercion failed")
)

// Dataset is an immutable set of cleaned records plus load metadata.
type Dataset struct {
	records []domain.Record
	columns map[string]struct{}
	meta    domain.Meta
	log     *slog.Logger
}

// Option configures a Dataset.
type Option func(*Dataset)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dataset) {
		d.log = l
	}
}

// row keeps the input position so coercion errors point at the source line.
type row struct {
	index  int
	values domain.RawRecord
}

// New validates raw records against schema and builds a Dataset.
// Missing required fields only produce a warning. A value that cannot be
// coerced to its declared type fails the whole load with ErrTypeCoercion.
func New(raw []domain.RawRecord, schema Schema, opts ...Option) (*Dataset, error) {
	d := &Dataset{
		columns: make(map[string]struct{}),
		meta: domain.Meta{
			CountRaw: len(raw),
			Errors:   []string{},
			Warnings: []string{},
		},
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}

	rows := make([]row, 0, len(raw))
	for i, r := range raw {
		values := make(domain.RawRecord, len(r))
		for k, v := range r {
			values[k] = v
			d.columns[k] = struct{}{}
		}
		rows = append(rows, row{index: i, values: values})
	}

	d.checkRequired(rows, schema.Required)
	rows = clean(rows, schema)

	records := make([]domain.Record, 0, len(rows))
	for _, r := range rows {
		typed, err := coerceRow(r, schema)
		if err != nil {
			d.meta.Errors = append(d.meta.Errors, err.Error())
			return nil, err
		}
		records = append(records, d.toRecord(r.index, typed))
	}

	d.records = records
	d.meta.CountClean = len(records)
	d.meta.CountRemoved = d.meta.CountRaw - d.meta.CountClean

	d.log.Debug("dataset cleaned",
		"count_raw", d.meta.CountRaw,
		"count_removed", d.meta.CountRemoved,
		"count_clean", d.meta.CountClean,
	)

	return d, nil
}

func (d *Dataset) checkRequired(rows []row, required []string) {
	var notFound []string
	for _, field := range required {
		if _, ok := d.columns[field]; ok {
			continue
		}
		for i := range rows {
			rows[i].values[field] = nil
		}
		d.columns[field] = struct{}{}
		notFound = append(notFound, field)
	}

	if len(notFound) > 0 {
		message := "Required fields not found: " + strings.Join(notFound, ", ")
		d.meta.Warnings = append(d.meta.Warnings, message)
		d.log.Warn(message)
	}
}

func clean(rows []row, schema Schema) []row {
	for _, field := range schema.DropEmptyStrings {
		rows = slices.DeleteFunc(rows, func(r row) bool {
			s, ok := r.values[field].(string)
			return ok && s == ""
		})
	}

	for _, r := range rows {
		for _, field := range schema.EmptyToNull {
			if s, ok := r.values[field].(string); ok && s == "" {
				r.values[field] = nil
			}
		}
		for _, field := range schema.ZeroToNull {
			if isZero(r.values[field]) {
				r.values[field] = nil
			}
		}
	}

	return slices.DeleteFunc(rows, func(r row) bool {
		for _, field := range schema.NotNull {
			if r.values[field] == nil {
				return true
			}
		}
		return false
	})
}

func coerceRow(r row, schema Schema) (domain.RawRecord, error) {
	for _, field := range slices.Sorted(maps.Keys(schema.Types)) {
		v, ok := r.values[field]
		if !ok {
			continue
		}
		t := schema.Types[field]
		typed, err := coerce(v, t)
		if err == nil && slices.Contains(schema.NonNegative, field) {
			err = checkNonNegative(typed)
		}
		if err != nil {
			return nil, fmt.Errorf(
				"%w: row %d field %q value %v as %s: %w",
				ErrTypeCoercion, r.index, field, v, t, err,
			)
		}
		r.values[field] = typed
	}
	return r.values, nil
}

// toRecord maps typed values onto a Record. Canonical fields the schema did
// not declare are converted leniently; failures become nil and are noted in
// Meta.Errors.
func (d *Dataset) toRecord(index int, values domain.RawRecord) domain.Record {
	lenient := func(field string, t FieldType) any {
		v, err := coerce(values[field], t)
		if err != nil {
			d.meta.Errors = append(d.meta.Errors,
				fmt.Sprintf("row %d field %q: %v", index, field, err))
			return nil
		}
		return v
	}

	rec := domain.Record{
		ID:           stringValue(lenient(domain.FieldID, TypeString)),
		CategoryName: stringValue(lenient(domain.FieldCategoryName, TypeString)),
		CategoryURL:  stringValue(lenient(domain.FieldCategoryURL, TypeString)),
		Brand:        stringValue(lenient(domain.FieldBrand, TypeString)),
		Name:         stringValue(lenient(domain.FieldName, TypeString)),
		URL:          stringValue(lenient(domain.FieldURL, TypeString)),
	}

	if v, ok := lenient(domain.FieldPosition, TypeInt).(int); ok {
		rec.Position = &v
	}
	if v, ok := lenient(domain.FieldPrice, TypeFloat).(float64); ok {
		rec.Price = &v
	}
	if v, ok := lenient(domain.FieldPurchases, TypeInt).(int); ok {
		rec.Purchases = &v
	}
	if v, ok := lenient(domain.FieldRating, TypeFloat).(float64); ok {
		rec.Rating = &v
	}
	if v, ok := lenient(domain.FieldReviews, TypeInt).(int); ok {
		rec.Reviews = &v
	}
	if v, ok := lenient(domain.FieldFirstReview, TypeTime).(time.Time); ok {
		rec.FirstReview = &v
	}

	return rec
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

// Records returns the cleaned records. The slice is shared; callers that
// derive fields write into it.
func (d *Dataset) Records() []domain.Record {
	return d.records
}

// Len returns the number of clean records.
func (d *Dataset) Len() int {
	return len(d.records)
}

// Meta returns a copy of the load metadata.
func (d *Dataset) Meta() domain.Meta {
	m := d.meta
	m.Errors = slices.Clone(d.meta.Errors)
	m.Warnings = slices.Clone(d.meta.Warnings)
	return m
}

// HasColumn reports whether the input carried the field, or it was
// synthesized as a required column.
func (d *Dataset) HasColumn(field string) bool {
	_, ok := d.columns[field]
	return ok
}

// Columns returns the sorted column names.
func (d *Dataset) Columns() []string {
	cols := make([]string, 0, len(d.columns))
	for c := range d.columns {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

// Raw re-emits the clean records as raw records over the dataset's
// canonical columns. Feeding the result back into New with the same schema
// removes nothing.
func (d *Dataset) Raw() []domain.RawRecord {
	out := make([]domain.RawRecord, 0, len(d.records))
	for i := range d.records {
		r := &d.records[i]
		values := domain.RawRecord{
			domain.FieldID:           r.ID,
			domain.FieldCategoryName: r.CategoryName,
			domain.FieldCategoryURL:  r.CategoryURL,
			domain.FieldBrand:        r.Brand,
			domain.FieldName:         r.Name,
			domain.FieldURL:          r.URL,
			domain.FieldPosition:     nilOr(r.Position),
			domain.FieldPrice:        nilOr(r.Price),
			domain.FieldPurchases:    nilOr(r.Purchases),
			domain.FieldRating:       nilOr(r.Rating),
			domain.FieldReviews:      nilOr(r.Reviews),
			domain.FieldFirstReview:  nilOr(r.FirstReview),
		}
		for k := range values {
			if !d.HasColumn(k) {
				delete(values, k)
			}
		}
		out = append(out, values)
	}
	return out
}

func nilOr[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
