package member

import (
	"context"

	id "samadhan/pkg/domain"
)

// Store persists member records.
//
//go:generate mockgen -source=store.go -destination=mocks/mocks.go -package=mocks
type Store interface {
	// Create inserts a new member. Returns sentinel.ErrConflict when the
	// natural key already exists.
	Create(ctx context.Context, m Member) error
	// Update overwrites an existing member by ID. Returns sentinel.ErrNotFound
	// when the record does not exist.
	Update(ctx context.Context, m Member) error
	FindByID(ctx context.Context, memberID id.MemberID) (Member, error)
	// FindByNaturalKey is an exact-match lookup; no fuzzy matching.
	FindByNaturalKey(ctx context.Context, key NaturalKey) (Member, error)
	ListByProgram(ctx context.Context, programID id.ProgramID) ([]Member, error)
	ListByFamily(ctx context.Context, familyID id.FamilyID) ([]Member, error)
	// SetFamilyID rewrites only the family back-reference. A nil familyID
	// clears the assignment.
	SetFamilyID(ctx context.Context, memberID id.MemberID, familyID id.FamilyID) error
	// ListAssigned returns members with a family back-reference set, for the
	// reconciliation sweep.
	ListAssigned(ctx context.Context) ([]Member, error)
}
