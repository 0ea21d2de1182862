package catalog

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	id "samadhan/pkg/domain"
)

// Service assembles questions with their resolved options. Option IDs the
// store cannot name are dropped; the caller only ever sees options the
// catalog can describe.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Questions returns the requested questions with Options resolved.
func (s *Service) Questions(ctx context.Context, ids []id.QuestionID) ([]Question, error) {
	return s.Resolve(ctx, ids, nil)
}

// Resolve fetches a question batch and an option batch concurrently with
// shared cancellation, then attaches resolved options to each question.
// extraOptionIDs lets callers that already know option IDs (from criteria)
// warm the same lookup.
func (s *Service) Resolve(ctx context.Context, questionIDs []id.QuestionID, extraOptionIDs []id.OptionID) ([]Question, error) {
	var (
		questions []Question
		options   []Option
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		questions, err = s.store.QuestionsByID(gctx, questionIDs)
		if err != nil {
			return fmt.Errorf("fetch questions: %w", err)
		}
		return nil
	})
	if len(extraOptionIDs) > 0 {
		g.Go(func() error {
			var err error
			options, err = s.store.OptionsByID(gctx, extraOptionIDs)
			if err != nil {
				return fmt.Errorf("fetch options: %w", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	optionIndex := make(map[id.OptionID]Option, len(options))
	for _, o := range options {
		optionIndex[o.ID] = o
	}

	// Second pass for option IDs referenced by the questions themselves but
	// not already resolved.
	var missing []id.OptionID
	seen := make(map[id.OptionID]bool, len(optionIndex))
	for oid := range optionIndex {
		seen[oid] = true
	}
	for _, q := range questions {
		for _, oid := range q.OptionIDs {
			if !seen[oid] {
				seen[oid] = true
				missing = append(missing, oid)
			}
		}
	}
	if len(missing) > 0 {
		fetched, err := s.store.OptionsByID(ctx, missing)
		if err != nil {
			return nil, fmt.Errorf("fetch question options: %w", err)
		}
		for _, o := range fetched {
			optionIndex[o.ID] = o
		}
	}

	for i := range questions {
		resolved := make([]Option, 0, len(questions[i].OptionIDs))
		for _, oid := range questions[i].OptionIDs {
			if o, ok := optionIndex[oid]; ok {
				resolved = append(resolved, o)
			}
		}
		questions[i].Options = resolved
	}
	return questions, nil
}
