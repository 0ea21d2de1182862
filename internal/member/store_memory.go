package member

import (
	"context"
	"fmt"
	"sync"

	id "samadhan/pkg/domain"
	"samadhan/pkg/platform/sentinel"
)

// InMemoryStore backs development and tests. The natural-key index is
// maintained under the same lock as the primary map so Create is atomic.
type InMemoryStore struct {
	mu    sync.RWMutex
	byID  map[id.MemberID]Member
	byKey map[NaturalKey]id.MemberID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		byID:  make(map[id.MemberID]Member),
		byKey: make(map[NaturalKey]id.MemberID),
	}
}

func (s *InMemoryStore) Create(_ context.Context, m Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byKey[m.Key()]; exists {
		return fmt.Errorf("member natural key: %w", sentinel.ErrConflict)
	}
	if _, exists := s.byID[m.ID]; exists {
		return fmt.Errorf("member id: %w", sentinel.ErrConflict)
	}
	s.byID[m.ID] = m
	s.byKey[m.Key()] = m.ID
	return nil
}

func (s *InMemoryStore) Update(_ context.Context, m Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.byID[m.ID]
	if !ok {
		return fmt.Errorf("member %s: %w", m.ID, sentinel.ErrNotFound)
	}
	// Identity fields are immutable, so the key index needs no rewrite.
	if existing.Key() != m.Key() {
		return fmt.Errorf("member %s natural key changed: %w", m.ID, sentinel.ErrInvalidState)
	}
	s.byID[m.ID] = m
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, memberID id.MemberID) (Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.byID[memberID]
	if !ok {
		return Member{}, fmt.Errorf("member %s: %w", memberID, sentinel.ErrNotFound)
	}
	return m, nil
}

func (s *InMemoryStore) FindByNaturalKey(_ context.Context, key NaturalKey) (Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	memberID, ok := s.byKey[key]
	if !ok {
		return Member{}, fmt.Errorf("member key lookup: %w", sentinel.ErrNotFound)
	}
	return s.byID[memberID], nil
}

func (s *InMemoryStore) ListByProgram(_ context.Context, programID id.ProgramID) ([]Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var members []Member
	for _, m := range s.byID {
		if m.ProgramID == programID {
			members = append(members, m)
		}
	}
	return members, nil
}

func (s *InMemoryStore) ListByFamily(_ context.Context, familyID id.FamilyID) ([]Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var members []Member
	for _, m := range s.byID {
		if m.FamilyID == familyID {
			members = append(members, m)
		}
	}
	return members, nil
}

func (s *InMemoryStore) SetFamilyID(_ context.Context, memberID id.MemberID, familyID id.FamilyID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.byID[memberID]
	if !ok {
		return fmt.Errorf("member %s: %w", memberID, sentinel.ErrNotFound)
	}
	m.FamilyID = familyID
	s.byID[memberID] = m
	return nil
}

func (s *InMemoryStore) ListAssigned(_ context.Context) ([]Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var members []Member
	for _, m := range s.byID {
		if !m.FamilyID.IsNil() {
			members = append(members, m)
		}
	}
	return members, nil
}

// Count reports the number of stored members; test helper.
func (s *InMemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
