package audit

import (
	"context"
	"log/slog"
)

// Worker decouples event emission from persistence with a buffered channel.
// When the buffer is full events are dropped rather than blocking the
// registration path.
type Worker struct {
	store  Store
	logger *slog.Logger
	events chan Event
}

func NewWorker(store Store, logger *slog.Logger, buffer int) *Worker {
	if buffer <= 0 {
		buffer = 256
	}
	return &Worker{
		store:  store,
		logger: logger,
		events: make(chan Event, buffer),
	}
}

func (w *Worker) Emit(ctx context.Context, event Event) {
	select {
	case w.events <- stamp(ctx, event):
	default:
		w.logger.Warn("audit buffer full, dropping event",
			slog.String("action", string(event.Action)))
	}
}

// Run drains the buffer until ctx is cancelled, then flushes what remains.
func (w *Worker) Run(ctx context.Context) {
	for {
		select {
		case event := <-w.events:
			w.append(ctx, event)
		case <-ctx.Done():
			w.flush()
			return
		}
	}
}

func (w *Worker) append(ctx context.Context, event Event) {
	if err := w.store.Append(ctx, event); err != nil {
		w.logger.Error("append audit event",
			slog.String("action", string(event.Action)),
			slog.String("error", err.Error()))
	}
}

func (w *Worker) flush() {
	for {
		select {
		case event := <-w.events:
			w.append(context.Background(), event)
		default:
			return
		}
	}
}
