package handlers_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/wondersell/seller-stats/internal/export"
	"github.com/wondersell/seller-stats/internal/report"
	domain "github.com/wondersell/seller-stats/pkg/types"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService() *report.Service {
	return report.NewService(
		report.WithLogger(quietLogger()),
		report.WithClock(func() time.Time { return time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC) }),
	)
}

func newExporter(t *testing.T) *export.Exporter {
	t.Helper()
	return export.NewExporter(export.NewLocalPutter(t.TempDir()), export.WithLogger(quietLogger()))
}

func listing(id, brand, price, reviews string) domain.RawRecord {
	return domain.RawRecord{
		"id":            id,
		"position":      "1",
		"price":         price,
		"purchases":     "30",
		"rating":        "4.7",
		"reviews":       reviews,
		"first_review":  "2020-03-03T00:00:00Z",
		"category_name": "Платья",
		"category_url":  "https://www.wildberries.ru/catalog/platya",
		"brand":         brand,
	}
}
