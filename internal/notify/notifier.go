// Package notify defines the notification interface and implementations
// for category diff delivery.
package notify

import (
	"context"

	domain "github.com/wondersell/seller-stats/pkg/types"
)

// DiffNotice describes the outcome of one category list comparison.
type DiffNotice struct {
	Source    string
	Added     []domain.CategoryEntry
	Removed   []domain.CategoryEntry
	ExportURL string
}

// Empty reports whether nothing was added or removed.
func (n *DiffNotice) Empty() bool {
	return len(n.Added) == 0 && len(n.Removed) == 0
}

// Notifier defines the interface for sending category diff notices.
type Notifier interface {
	SendDiff(ctx context.Context, notice *DiffNotice) error
}
