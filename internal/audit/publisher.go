package audit

import (
	"context"
	"log/slog"

	"samadhan/pkg/requestcontext"
)

// Publisher delivers audit events to a sink. Emit must not fail the calling
// operation; sinks log and drop on delivery problems.
type Publisher interface {
	Emit(ctx context.Context, event Event)
}

// StorePublisher writes events straight to a Store, stamping the timestamp
// and request metadata from context.
type StorePublisher struct {
	store  Store
	logger *slog.Logger
}

func NewStorePublisher(store Store, logger *slog.Logger) *StorePublisher {
	return &StorePublisher{store: store, logger: logger}
}

func (p *StorePublisher) Emit(ctx context.Context, event Event) {
	event = stamp(ctx, event)
	if err := p.store.Append(ctx, event); err != nil {
		p.logger.Error("append audit event",
			slog.String("action", string(event.Action)),
			slog.String("error", err.Error()))
	}
}

// NopPublisher discards events. Used where auditing is disabled.
type NopPublisher struct{}

func (NopPublisher) Emit(context.Context, Event) {}

// MultiPublisher fans an event out to every sink.
type MultiPublisher []Publisher

func (m MultiPublisher) Emit(ctx context.Context, event Event) {
	for _, p := range m {
		p.Emit(ctx, event)
	}
}

func stamp(ctx context.Context, event Event) Event {
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.AgentID == "" {
		event.AgentID = requestcontext.AgentID(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	return event
}
