package eligibility

import (
	"context"
	"sync"

	id "samadhan/pkg/domain"
)

// InMemoryStore holds scheme and document definitions in process.
type InMemoryStore struct {
	mu        sync.RWMutex
	schemes   []Scheme
	documents []Document
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

// Seed replaces the stored definitions.
func (s *InMemoryStore) Seed(schemes []Scheme, documents []Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schemes = append([]Scheme{}, schemes...)
	s.documents = append([]Document{}, documents...)
}

func (s *InMemoryStore) ListSchemes(_ context.Context, programID id.ProgramID) ([]Scheme, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []Scheme
	for _, scheme := range s.schemes {
		if scheme.ProgramID == programID {
			result = append(result, scheme)
		}
	}
	return result, nil
}

func (s *InMemoryStore) ListDocuments(_ context.Context, programID id.ProgramID) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []Document
	for _, document := range s.documents {
		if document.ProgramID == programID {
			result = append(result, document)
		}
	}
	return result, nil
}
