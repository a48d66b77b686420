package client

import (
	"context"

	"github.com/wondersell/seller-stats/internal/export"
	domain "github.com/wondersell/seller-stats/pkg/types"
)

// StatsRequest is the body of a category stats call. Either Records or CSV
// must be set.
type StatsRequest struct {
	Records     []domain.RawRecord `json:"records,omitempty"`
	CSV         string             `json:"csv,omitempty"`
	Transformer string             `json:"transformer,omitempty"`
	Top         int                `json:"top,omitempty"`
	HHIBy       string             `json:"hhi_by,omitempty"`
	NoHHI       bool               `json:"no_hhi,omitempty"`
	Export      bool               `json:"export,omitempty"`
}

// StatsResponse is the computed report and, when requested, the stored
// workbook.
type StatsResponse struct {
	Report *domain.CategoryReport `json:"report"`
	Export *export.Result         `json:"export,omitempty"`
}

// CategoryStats computes a category report on the server.
func (c *Client) CategoryStats(ctx context.Context, req *StatsRequest) (*StatsResponse, error) {
	var resp StatsResponse
	if err := c.post(ctx, "/api/v1/stats/category", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
