package member

import (
	"strings"
	"time"

	"samadhan/internal/eligibility"
	id "samadhan/pkg/domain"
)

// Location is the field-visit address block captured during registration.
type Location struct {
	Village  string `json:"village,omitempty"`
	District string `json:"district,omitempty"`
	State    string `json:"state,omitempty"`
}

// NaturalKey is the deduplication tuple for member records. Two registrations
// with the same key always refer to the same person within a program.
type NaturalKey struct {
	NormalizedName string
	AadharLastFour string
	ProgramID      id.ProgramID
}

// NewNaturalKey normalizes the raw registration fields into a lookup key.
func NewNaturalKey(name, aadharLastFour string, programID id.ProgramID) NaturalKey {
	return NaturalKey{
		NormalizedName: NormalizeName(name),
		AadharLastFour: strings.TrimSpace(aadharLastFour),
		ProgramID:      programID,
	}
}

// NormalizeName lowercases and collapses whitespace so "Asha  DEVI" and
// "asha devi" resolve to the same member.
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// Member is a registered person. Identity fields (Name, NormalizedName,
// AadharLastFour, ProgramID) are fixed at creation; everything else may be
// overwritten by a merge on re-registration.
type Member struct {
	ID             id.MemberID
	Name           string
	NormalizedName string
	PhoneNumber    string
	DateOfBirth    string
	AadharLastFour string
	ProgramID      id.ProgramID
	// FamilyID is the back-reference to the member's family. Nil means
	// unassigned; a member belongs to at most one family.
	FamilyID id.FamilyID
	Location Location

	QuestionAnswers   []eligibility.QuestionAnswer
	EligibleSchemes   []eligibility.Match
	EligibleDocuments []eligibility.Match

	RegisteredBy id.AgentID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Key returns the member's natural key.
func (m Member) Key() NaturalKey {
	return NaturalKey{
		NormalizedName: m.NormalizedName,
		AadharLastFour: m.AadharLastFour,
		ProgramID:      m.ProgramID,
	}
}
