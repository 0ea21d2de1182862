package catalog

import (
	"context"

	id "samadhan/pkg/domain"
)

// Store supplies question and option records by ID batches. IDs the store
// cannot resolve are simply absent from the result; batch lookups never fail
// over a missing record.
type Store interface {
	QuestionsByID(ctx context.Context, ids []id.QuestionID) ([]Question, error)
	OptionsByID(ctx context.Context, ids []id.OptionID) ([]Option, error)
}
