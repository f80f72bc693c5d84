package logger

import (
	"context"
	"log/slog"
	"strconv"
	"time"
)

// ChangeEvent describes a write to a persisted entity.
type ChangeEvent struct {
	EventType string
	Principal string
	Entity    string
	EntityID  int64
	Metadata  map[string]string
}

// AuditLogger writes data-change audit records through slog.
type AuditLogger struct {
	logger *slog.Logger
}

func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return &AuditLogger{
		logger: logger,
	}
}

// LogChange records event at info level. Metadata keys are emitted as
// top-level attributes.
func (al *AuditLogger) LogChange(ctx context.Context, event ChangeEvent) {
	attrs := []slog.Attr{
		slog.String("audit_type", "data_change"),
		slog.String("event_type", event.EventType),
		slog.String("principal", event.Principal),
		slog.String("entity", event.Entity),
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
	}

	if event.EntityID != 0 {
		attrs = append(attrs, slog.String("entity_id", strconv.FormatInt(event.EntityID, 10)))
	}

	for key, val := range event.Metadata {
		attrs = append(attrs, slog.String(key, val))
	}

	al.logger.LogAttrs(ctx, slog.LevelInfo, "audit", attrs...)
}
