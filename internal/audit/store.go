package audit

import "context"

// Store persists audit events append-only.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByMember(ctx context.Context, memberID string) ([]Event, error)
}
