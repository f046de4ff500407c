package audit

import (
	"context"
	"log/slog"

	"campustrust/pkg/requestcontext"
)

// Emitter is the publishing side used by domain services.
type Emitter interface {
	Emit(ctx context.Context, event Event)
}

// Log writes one audit event to both the structured logger and the audit
// publisher, enriched with request-scoped metadata. Either sink may be nil.
func Log(ctx context.Context, logger *slog.Logger, emitter Emitter, event Event, attrList ...any) {
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if event.IP == "" {
		event.IP = requestcontext.ClientIP(ctx)
	}
	if event.Device == "" {
		event.Device = requestcontext.Device(ctx)
	}

	if logger != nil {
		args := append(attrList,
			"event", event.Action,
			"user_id", event.UserID.String(),
			"log_type", "audit",
		)
		if event.RequestID != "" {
			args = append(args, "request_id", event.RequestID)
		}
		logger.InfoContext(ctx, event.Action, args...)
	}

	if emitter != nil {
		emitter.Emit(ctx, event)
	}
}
