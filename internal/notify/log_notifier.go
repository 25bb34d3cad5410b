package notify

import (
	"context"
	"log/slog"

	"github.com/pkordes/visaflow/internal/domain"
)

// LogNotifier delivers alerts by writing them to a structured log. It is the
// default channel until a push provider is configured.
type LogNotifier struct {
	log *slog.Logger
}

// NewLogNotifier returns a Notifier that writes each alert to log.
func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Notify logs the alert at info level. It never fails.
func (n *LogNotifier) Notify(ctx context.Context, a domain.ScheduledAlert) error {
	n.log.InfoContext(ctx, "visa alert",
		"alert_id", a.ID,
		"user_id", a.UserID,
		"trip_id", a.TripID,
		"offset_days", a.OffsetDays,
		"title", a.Title,
		"body", a.Body,
	)
	return nil
}
