package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Record IDs we assign are uuid-backed so they stay unique and stable across
// stores. Reference-data IDs (questions, options, schemes, programs) are owned
// by the catalog and kept as opaque strings.
type (
	MemberID  uuid.UUID
	FamilyID  uuid.UUID
	SessionID uuid.UUID
)

type (
	ProgramID  string
	QuestionID string
	OptionID   string
	SchemeID   string
	DocumentID string
	AgentID    string
)

func NewMemberID() MemberID   { return MemberID(uuid.New()) }
func NewFamilyID() FamilyID   { return FamilyID(uuid.New()) }
func NewSessionID() SessionID { return SessionID(uuid.New()) }

// ParseMemberID validates and returns a MemberID. Nil UUIDs are rejected so a
// zero value never masquerades as a real record.
func ParseMemberID(s string) (MemberID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return MemberID{}, fmt.Errorf("parse member id: %w", err)
	}
	if u == uuid.Nil {
		return MemberID{}, fmt.Errorf("member id must not be nil")
	}
	return MemberID(u), nil
}

func ParseFamilyID(s string) (FamilyID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return FamilyID{}, fmt.Errorf("parse family id: %w", err)
	}
	if u == uuid.Nil {
		return FamilyID{}, fmt.Errorf("family id must not be nil")
	}
	return FamilyID(u), nil
}

func ParseSessionID(s string) (SessionID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return SessionID{}, fmt.Errorf("parse session id: %w", err)
	}
	if u == uuid.Nil {
		return SessionID{}, fmt.Errorf("session id must not be nil")
	}
	return SessionID(u), nil
}

func (id MemberID) String() string  { return uuid.UUID(id).String() }
func (id FamilyID) String() string  { return uuid.UUID(id).String() }
func (id SessionID) String() string { return uuid.UUID(id).String() }

func (id MemberID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id FamilyID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id SessionID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
