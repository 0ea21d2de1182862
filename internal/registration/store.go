package registration

import (
	"context"
	"time"

	id "samadhan/pkg/domain"
)

// SessionStore holds in-progress registration sessions. Sessions are
// node-local working state, not records: they live in memory with a TTL and
// are discarded once the member is persisted.
type SessionStore interface {
	Create(ctx context.Context, s Session) error
	// Get returns sentinel.ErrNotFound for unknown sessions and
	// sentinel.ErrExpired for sessions past their TTL.
	Get(ctx context.Context, sessionID id.SessionID) (Session, error)
	Update(ctx context.Context, s Session) error
	Delete(ctx context.Context, sessionID id.SessionID) error
	// PurgeExpired drops every session past its TTL and reports how many.
	PurgeExpired(ctx context.Context, now time.Time) int
}
