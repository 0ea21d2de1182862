package audit

import (
	"time"

	id "samadhan/pkg/domain"
)

// Action names the registration event being recorded.
type Action string

const (
	ActionMemberCreated    Action = "member_created"
	ActionMemberMerged     Action = "member_merged"
	ActionMemberDiscarded  Action = "member_discarded"
	ActionFamilyCreated    Action = "family_created"
	ActionFamilyMembership Action = "family_membership_changed"
	ActionRepair           Action = "reconciliation_repair"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Action    Action       `json:"action"`
	Timestamp time.Time    `json:"timestamp"`
	ProgramID id.ProgramID `json:"programId,omitempty"`
	MemberID  string       `json:"memberId,omitempty"`
	FamilyID  string       `json:"familyId,omitempty"`
	AgentID   id.AgentID   `json:"agentId,omitempty"`
	RequestID string       `json:"requestId,omitempty"`
	Detail    string       `json:"detail,omitempty"`
}
