package client

import (
	"context"

	"github.com/wondersell/seller-stats/internal/export"
	"github.com/wondersell/seller-stats/internal/report"
	domain "github.com/wondersell/seller-stats/pkg/types"
)

// DiffRequest is the body of a category diff call.
type DiffRequest struct {
	Old    []domain.Category `json:"old"`
	New    []domain.Category `json:"new"`
	Kind   string            `json:"kind,omitempty"`
	Export bool              `json:"export,omitempty"`
}

// DiffResponse holds the per-kind summary and the selected diff.
type DiffResponse struct {
	Summary []report.DiffSummary   `json:"summary"`
	Entries []domain.CategoryEntry `json:"entries,omitempty"`
	Export  *export.Result         `json:"export,omitempty"`
}

// CategoryDiff compares two category snapshots on the server.
func (c *Client) CategoryDiff(ctx context.Context, req *DiffRequest) (*DiffResponse, error) {
	var resp DiffResponse
	if err := c.post(ctx, "/api/v1/categories/diff", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
