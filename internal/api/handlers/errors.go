package handlers

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/wondersell/seller-stats/internal/export"
	"github.com/wondersell/seller-stats/internal/loader"
	"github.com/wondersell/seller-stats/pkg/catdiff"
	"github.com/wondersell/seller-stats/pkg/dataset"
	"github.com/wondersell/seller-stats/pkg/stats"
	"github.com/wondersell/seller-stats/pkg/transform"
)

// apiError maps pipeline errors to HTTP problems: unusable data is 422, a
// bad request argument is 400 and anything else is 500.
func apiError(msg string, err error) error {
	switch {
	case errors.Is(err, dataset.ErrBadDataSet),
		errors.Is(err, dataset.ErrTypeCoercion):
		return huma.Error422UnprocessableEntity(msg + ": " + err.Error())
	case errors.Is(err, stats.ErrInvalidArgument),
		errors.Is(err, catdiff.ErrInvalidArgument),
		errors.Is(err, transform.ErrUnknownTransformer),
		errors.Is(err, loader.ErrUnknownFormat),
		errors.Is(err, export.ErrNoTables):
		return huma.Error400BadRequest(msg + ": " + err.Error())
	default:
		return huma.Error500InternalServerError(msg, err)
	}
}
