package registration

import (
	"time"

	"samadhan/internal/eligibility"
	"samadhan/internal/member"
	id "samadhan/pkg/domain"
)

// Session is one field agent's in-progress registration of one person. It
// accumulates identity fields and questionnaire answers across the wizard
// steps, then feeds evaluation and final persistence. Sessions are
// single-threaded: one agent works one session at a time.
type Session struct {
	ID        id.SessionID
	ProgramID id.ProgramID
	AgentID   id.AgentID

	Name           string
	PhoneNumber    string
	DateOfBirth    string
	AadharLastFour string
	FamilyID       id.FamilyID
	Location       member.Location

	Answers *eligibility.AnswerSet

	// Evaluation output, refreshed on every Evaluate call.
	EligibleSchemes   []eligibility.Match
	EligibleDocuments []eligibility.Match

	CreatedAt time.Time
	UpdatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session passed its TTL at the given time.
func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Evaluation is the result of one eligibility pass: the compact matches that
// get persisted plus the full entities for detail display.
type Evaluation struct {
	SchemeMatches   []eligibility.Match
	DocumentMatches []eligibility.Match
	Schemes         []eligibility.Scheme
	Documents       []eligibility.Document
}
