package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes provisioning events to an slog.Logger.
// State and attempt events go out at Debug, errors at Warn.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger.
func (a *SlogAdapter) Log(event Event) {
	level := slog.LevelDebug
	attrs := []slog.Attr{
		slog.String("layer", event.Layer.String()),
		slog.String("category", event.Category.String()),
	}

	if event.AttemptID != "" {
		attrs = append(attrs, slog.String("attempt_id", event.AttemptID))
	}
	if event.UserID != "" {
		attrs = append(attrs, slog.String("user_id", event.UserID))
	}
	if event.DeviceID != "" {
		attrs = append(attrs, slog.String("device_id", event.DeviceID))
	}

	switch {
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("old_state", event.StateChange.OldState),
			slog.String("new_state", event.StateChange.NewState),
		)
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	case event.Attempt != nil:
		attrs = append(attrs,
			slog.String("method", event.Attempt.Method),
			slog.String("outcome", event.Attempt.Outcome.String()),
		)
		if event.Attempt.Duration > 0 {
			attrs = append(attrs, slog.Duration("duration", event.Attempt.Duration))
		}
		if event.Attempt.ModelID != "" {
			attrs = append(attrs, slog.String("model_id", event.Attempt.ModelID))
		}
		if event.Attempt.AssignedHub != "" {
			attrs = append(attrs, slog.String("hub", event.Attempt.AssignedHub))
		}
	case event.Error != nil:
		level = slog.LevelWarn
		attrs = append(attrs,
			slog.String("error_layer", event.Error.Layer.String()),
			slog.String("error_msg", event.Error.Message),
		)
		if event.Error.Context != "" {
			attrs = append(attrs, slog.String("error_context", event.Error.Context))
		}
	}

	a.logger.LogAttrs(context.Background(), level, "provision", attrs...)
}

var _ Logger = (*SlogAdapter)(nil)
