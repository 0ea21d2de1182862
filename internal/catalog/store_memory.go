package catalog

import (
	"context"
	"sync"

	id "samadhan/pkg/domain"
)

// InMemoryStore keeps reference data in process. It backs tests and local
// runs, seeded from cmd wiring.
type InMemoryStore struct {
	mu        sync.RWMutex
	questions map[id.QuestionID]Question
	options   map[id.OptionID]Option
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		questions: make(map[id.QuestionID]Question),
		options:   make(map[id.OptionID]Option),
	}
}

// Seed loads reference data. Later seeds overwrite earlier records with the
// same ID.
func (s *InMemoryStore) Seed(questions []Question, options []Option) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, q := range questions {
		s.questions[q.ID] = q
	}
	for _, o := range options {
		s.options[o.ID] = o
	}
}

func (s *InMemoryStore) QuestionsByID(_ context.Context, ids []id.QuestionID) ([]Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]Question, 0, len(ids))
	for _, questionID := range ids {
		if q, ok := s.questions[questionID]; ok {
			result = append(result, q)
		}
	}
	return result, nil
}

func (s *InMemoryStore) OptionsByID(_ context.Context, ids []id.OptionID) ([]Option, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]Option, 0, len(ids))
	for _, optionID := range ids {
		if o, ok := s.options[optionID]; ok {
			result = append(result, o)
		}
	}
	return result, nil
}
