package middleware

import (
	"log/slog"

	"github.com/glin-ai/forgewatch/event"
)

// Logger logs each event that passes through the pipeline.
type Logger struct {
	log *slog.Logger
}

// NewLogger creates a logging middleware. A nil logger uses slog.Default.
func NewLogger(l *slog.Logger) *Logger {
	if l == nil {
		l = slog.Default()
	}
	return &Logger{log: l}
}

// Wrap decorates the handler with event logging.
func (l *Logger) Wrap(next Handler) Handler {
	return func(ev event.ContractEvent) *event.ContractEvent {
		l.log.Info("contract event",
			"event", ev.EventName,
			"block", ev.BlockNumber,
			"bytes", len(ev.Data),
		)
		return next(ev)
	}
}
