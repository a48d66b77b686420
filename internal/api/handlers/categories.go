package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/wondersell/seller-stats/internal/export"
	"github.com/wondersell/seller-stats/internal/report"
	"github.com/wondersell/seller-stats/pkg/catdiff"
	domain "github.com/wondersell/seller-stats/pkg/types"
)

// CategoriesHandler compares category list snapshots.
type CategoriesHandler struct {
	svc      *report.Service
	exporter *export.Exporter
}

// NewCategoriesHandler creates a new CategoriesHandler. exporter may be nil.
func NewCategoriesHandler(svc *report.Service, exporter *export.Exporter) *CategoriesHandler {
	return &CategoriesHandler{svc: svc, exporter: exporter}
}

// CategoryDiffInput is the request body for the category diff endpoint.
type CategoryDiffInput struct {
	Body struct {
		Old    []domain.Category `json:"old" doc:"Previous category list snapshot"`
		New    []domain.Category `json:"new" doc:"Current category list snapshot"`
		Kind   string            `json:"kind,omitempty" enum:"added,removed,full" doc:"Diff to list and export"`
		Export bool              `json:"export,omitempty" doc:"Store the selected diff as an XLSX workbook"`
	}
}

// CategoryDiffOutput is the response body for the category diff endpoint.
type CategoryDiffOutput struct {
	Body struct {
		Summary []report.DiffSummary   `json:"summary" doc:"Entry counts per diff kind"`
		Entries []domain.CategoryEntry `json:"entries,omitempty" doc:"Entries of the selected diff"`
		Export  *export.Result         `json:"export,omitempty" doc:"Stored workbook, when requested"`
	}
}

// CategoryDiff compares the posted snapshots.
func (h *CategoriesHandler) CategoryDiff(ctx context.Context, input *CategoryDiffInput) (*CategoryDiffOutput, error) {
	if input.Body.Export && h.exporter == nil {
		return nil, huma.Error501NotImplemented("export is not configured")
	}

	var kind catdiff.Kind
	if input.Body.Kind != "" || input.Body.Export {
		k, err := catdiff.ParseKind(input.Body.Kind)
		if err != nil {
			return nil, apiError("invalid kind", err)
		}
		kind = k
	}

	u, err := h.svc.DiffCategories(input.Body.Old, input.Body.New)
	if err != nil {
		return nil, apiError("comparing categories", err)
	}

	summary, err := report.Summarize(u)
	if err != nil {
		return nil, apiError("summarizing diff", err)
	}

	out := &CategoryDiffOutput{}
	out.Body.Summary = summary

	if kind == "" {
		return out, nil
	}

	if out.Body.Entries, err = u.Entries(kind); err != nil {
		return nil, apiError("listing diff", err)
	}

	if input.Body.Export {
		table, err := u.Table(kind)
		if err != nil {
			return nil, apiError("rendering diff", err)
		}
		res, err := h.exporter.Export(ctx, string(kind)+"_", table)
		if err != nil {
			return nil, apiError("exporting diff", err)
		}
		out.Body.Export = res
	}
	return out, nil
}

// RegisterCategoryRoutes registers category endpoints with the Huma API.
func RegisterCategoryRoutes(api huma.API, h *CategoriesHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "category-diff",
		Method:      http.MethodPost,
		Path:        "/api/v1/categories/diff",
		Summary:     "Compare category lists",
		Description: "Returns the categories added, removed and changed between two snapshots.",
		Tags:        []string{"categories"},
		Errors: []int{
			http.StatusBadRequest,
			http.StatusUnprocessableEntity,
			http.StatusInternalServerError,
			http.StatusNotImplemented,
		},
	}, h.CategoryDiff)
}
