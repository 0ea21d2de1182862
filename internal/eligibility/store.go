package eligibility

import (
	"context"

	id "samadhan/pkg/domain"
)

// Store supplies the schemes and documents configured for a program.
// Criteria come back already resolved into the tagged variant.
type Store interface {
	ListSchemes(ctx context.Context, programID id.ProgramID) ([]Scheme, error)
	ListDocuments(ctx context.Context, programID id.ProgramID) ([]Document, error)
}
