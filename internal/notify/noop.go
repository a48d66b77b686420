package notify

import (
	"context"
	"log/slog"
)

// NoOpNotifier implements Notifier by logging discarded notices. It is used
// when Discord (or another notification backend) is not configured.
type NoOpNotifier struct {
	log *slog.Logger
}

// NewNoOpNotifier creates a notifier that discards notices with a log message.
func NewNoOpNotifier(log *slog.Logger) *NoOpNotifier {
	return &NoOpNotifier{log: log}
}

// SendDiff logs and discards a notice.
func (n *NoOpNotifier) SendDiff(_ context.Context, notice *DiffNotice) error {
	n.log.Debug("notification discarded (no backend configured)",
		"source", notice.Source,
		"added", len(notice.Added),
		"removed", len(notice.Removed),
	)
	return nil
}
