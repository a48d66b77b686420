package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/wondersell/seller-stats/internal/export"
	"github.com/wondersell/seller-stats/internal/loader"
	"github.com/wondersell/seller-stats/internal/report"
	"github.com/wondersell/seller-stats/pkg/transform"
	domain "github.com/wondersell/seller-stats/pkg/types"
)

// StatsHandler computes category reports from posted records.
type StatsHandler struct {
	svc      *report.Service
	exporter *export.Exporter
}

// NewStatsHandler creates a new StatsHandler. exporter may be nil, in which
// case export requests are rejected.
func NewStatsHandler(svc *report.Service, exporter *export.Exporter) *StatsHandler {
	return &StatsHandler{svc: svc, exporter: exporter}
}

// CategoryStatsInput is the request body for the category stats endpoint.
type CategoryStatsInput struct {
	Body struct {
		Records     []domain.RawRecord `json:"records,omitempty" doc:"Crawler items, one object per listing"`
		CSV         string             `json:"csv,omitempty" doc:"CSV text with a header row, used when records is empty"`
		Transformer string             `json:"transformer,omitempty" doc:"Key transformer applied to every item" example:"wildsearch_wb"`
		Top         int                `json:"top,omitempty" minimum:"0" doc:"Size of the top goods ranking (default 5)" example:"5"`
		HHIBy       string             `json:"hhi_by,omitempty" doc:"Field to compute the concentration index over" example:"brand"`
		NoHHI       bool               `json:"no_hhi,omitempty" doc:"Skip the concentration index"`
		Export      bool               `json:"export,omitempty" doc:"Also store the report as an XLSX workbook"`
	}
}

// CategoryStatsOutput is the response body for the category stats endpoint.
type CategoryStatsOutput struct {
	Body struct {
		Report *domain.CategoryReport `json:"report" doc:"Computed statistics"`
		Export *export.Result         `json:"export,omitempty" doc:"Stored workbook, when requested"`
	}
}

// CategoryStats builds a report over the posted records.
func (h *StatsHandler) CategoryStats(ctx context.Context, input *CategoryStatsInput) (*CategoryStatsOutput, error) {
	if input.Body.Export && h.exporter == nil {
		return nil, huma.Error501NotImplemented("export is not configured")
	}

	t, err := transform.ByName(input.Body.Transformer)
	if err != nil {
		return nil, apiError("invalid transformer", err)
	}

	raw, err := h.records(ctx, input, t)
	if err != nil {
		return nil, err
	}

	rep, err := h.svc.Build(raw, report.Params{
		TopCount: input.Body.Top,
		HHIField: input.Body.HHIBy,
		NoHHI:    input.Body.NoHHI,
	})
	if err != nil {
		return nil, apiError("computing category stats", err)
	}

	out := &CategoryStatsOutput{}
	out.Body.Report = rep

	if input.Body.Export {
		res, err := h.exporter.Export(ctx, "stats_", export.ReportTables(rep)...)
		if err != nil {
			return nil, apiError("exporting report", err)
		}
		out.Body.Export = res
	}
	return out, nil
}

func (*StatsHandler) records(
	ctx context.Context,
	input *CategoryStatsInput,
	t transform.Transformer,
) ([]domain.RawRecord, error) {
	switch {
	case len(input.Body.Records) > 0:
		return t.TransformAll(input.Body.Records), nil
	case strings.TrimSpace(input.Body.CSV) != "":
		raw, err := loader.NewCSVReader(strings.NewReader(input.Body.CSV), loader.WithTransformer(t)).Load(ctx)
		if err != nil {
			return nil, huma.Error400BadRequest("invalid CSV: " + err.Error())
		}
		return raw, nil
	default:
		return nil, huma.Error400BadRequest("either records or csv is required")
	}
}

// RegisterStatsRoutes registers stats endpoints with the Huma API.
func RegisterStatsRoutes(api huma.API, h *StatsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "category-stats",
		Method:      http.MethodPost,
		Path:        "/api/v1/stats/category",
		Summary:     "Compute category statistics",
		Description: "Cleans the posted crawler items and returns turnover, run-rate, top goods, price distribution and concentration.",
		Tags:        []string{"stats"},
		Errors: []int{
			http.StatusBadRequest,
			http.StatusUnprocessableEntity,
			http.StatusInternalServerError,
			http.StatusNotImplemented,
		},
	}, h.CategoryStats)
}
