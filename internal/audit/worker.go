package audit

import (
	"context"
	"log/slog"
)

// Worker consumes events from a channel and persists them. It returns when
// the inbox is closed and drained, or when ctx is cancelled. Append failures
// are logged and the event is dropped.
type Worker struct {
	store  Store
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(store Store, inbox <-chan Event, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{store: store, inbox: inbox, logger: logger}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.inbox:
			if !ok {
				return nil
			}
			if err := w.store.Append(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "failed to persist audit event",
					"action", event.Action,
					"event_id", event.ID.String(),
					"error", err,
				)
			}
		}
	}
}
