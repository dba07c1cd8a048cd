// Package loggroup implements the log-group boundary on the process's own
// structured log stream. Alerts written through it land in whatever log
// aggregation the deployment already ships process output to, keyed by the
// configured group name.
package loggroup

import (
	"context"
	"errors"
	"log/slog"
)

// Writer writes alert events as structured log lines.
type Writer struct {
	logger *slog.Logger
}

// New builds a writer on the given logger.
func New(logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{logger: logger}
}

// WriteEvent emits one event line tagged with its log group.
func (w *Writer) WriteEvent(ctx context.Context, logGroup string, event []byte) error {
	if logGroup == "" {
		return errors.New("log group name is required")
	}
	w.logger.InfoContext(ctx, "alert event",
		"log_group", logGroup,
		"event", string(event))
	return nil
}
