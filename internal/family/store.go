package family

import (
	"context"

	id "samadhan/pkg/domain"
)

// Store persists family records.
type Store interface {
	Create(ctx context.Context, f Family) error
	// Update overwrites an existing family by ID. Returns sentinel.ErrNotFound
	// when the record does not exist.
	Update(ctx context.Context, f Family) error
	FindByID(ctx context.Context, familyID id.FamilyID) (Family, error)
	ListByProgram(ctx context.Context, programID id.ProgramID) ([]Family, error)
	// ListAll feeds the reconciliation sweep.
	ListAll(ctx context.Context) ([]Family, error)
}
