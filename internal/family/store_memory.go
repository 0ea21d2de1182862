package family

import (
	"context"
	"fmt"
	"sync"

	id "samadhan/pkg/domain"
	"samadhan/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu   sync.RWMutex
	byID map[id.FamilyID]Family
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{byID: make(map[id.FamilyID]Family)}
}

func (s *InMemoryStore) Create(_ context.Context, f Family) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[f.ID]; exists {
		return fmt.Errorf("family %s: %w", f.ID, sentinel.ErrConflict)
	}
	s.byID[f.ID] = clone(f)
	return nil
}

func (s *InMemoryStore) Update(_ context.Context, f Family) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[f.ID]; !exists {
		return fmt.Errorf("family %s: %w", f.ID, sentinel.ErrNotFound)
	}
	s.byID[f.ID] = clone(f)
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, familyID id.FamilyID) (Family, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.byID[familyID]
	if !ok {
		return Family{}, fmt.Errorf("family %s: %w", familyID, sentinel.ErrNotFound)
	}
	return clone(f), nil
}

func (s *InMemoryStore) ListByProgram(_ context.Context, programID id.ProgramID) ([]Family, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var families []Family
	for _, f := range s.byID {
		if f.ProgramID == programID {
			families = append(families, clone(f))
		}
	}
	return families, nil
}

func (s *InMemoryStore) ListAll(_ context.Context) ([]Family, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	families := make([]Family, 0, len(s.byID))
	for _, f := range s.byID {
		families = append(families, clone(f))
	}
	return families, nil
}

// clone copies the slices so callers cannot mutate stored state in place.
func clone(f Family) Family {
	f.MemberIDs = append([]id.MemberID{}, f.MemberIDs...)
	f.MemberNames = append([]string{}, f.MemberNames...)
	f.MemberAadharList = append([]string{}, f.MemberAadharList...)
	f.MemberPhoneNumbers = append([]string{}, f.MemberPhoneNumbers...)
	return f
}
