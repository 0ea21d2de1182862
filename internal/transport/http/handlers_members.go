package httptransport

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"samadhan/internal/audit"
	"samadhan/internal/eligibility"
	"samadhan/internal/member"
	id "samadhan/pkg/domain"
	domainerrors "samadhan/pkg/domain-errors"
)

const timeFormat = time.RFC3339

type memberResponse struct {
	ID                string                       `json:"id"`
	Name              string                       `json:"name"`
	NormalizedName    string                       `json:"normalizedName"`
	PhoneNumber       string                       `json:"phoneNumber,omitempty"`
	DateOfBirth       string                       `json:"dateOfBirth,omitempty"`
	AadharLastFour    string                       `json:"aadharLastFour"`
	ProgramID         string                       `json:"programId"`
	FamilyID          string                       `json:"familyId,omitempty"`
	Location          member.Location              `json:"location"`
	QuestionAnswers   []eligibility.QuestionAnswer `json:"questionAnswers"`
	EligibleSchemes   []eligibility.Match          `json:"eligibleSchemes"`
	EligibleDocuments []eligibility.Match          `json:"eligibleDocuments"`
	RegisteredBy      string                       `json:"registeredBy,omitempty"`
	CreatedAt         string                       `json:"createdAt"`
	UpdatedAt         string                       `json:"updatedAt"`
}

func toMemberResponse(m member.Member) memberResponse {
	familyID := ""
	if !m.FamilyID.IsNil() {
		familyID = m.FamilyID.String()
	}
	answers := m.QuestionAnswers
	if answers == nil {
		answers = []eligibility.QuestionAnswer{}
	}
	return memberResponse{
		ID:                m.ID.String(),
		Name:              m.Name,
		NormalizedName:    m.NormalizedName,
		PhoneNumber:       m.PhoneNumber,
		DateOfBirth:       m.DateOfBirth,
		AadharLastFour:    m.AadharLastFour,
		ProgramID:         string(m.ProgramID),
		FamilyID:          familyID,
		Location:          m.Location,
		QuestionAnswers:   answers,
		EligibleSchemes:   emptyIfNil(m.EligibleSchemes),
		EligibleDocuments: emptyIfNil(m.EligibleDocuments),
		RegisteredBy:      string(m.RegisteredBy),
		CreatedAt:         m.CreatedAt.UTC().Format(timeFormat),
		UpdatedAt:         m.UpdatedAt.UTC().Format(timeFormat),
	}
}

func (h *Handler) handleGetMember(w http.ResponseWriter, r *http.Request) {
	memberID, err := memberIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	m, err := h.members.Get(r.Context(), memberID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMemberResponse(m))
}

func (h *Handler) handleListMembers(w http.ResponseWriter, r *http.Request) {
	programID := id.ProgramID(r.URL.Query().Get("programId"))
	members, err := h.members.List(r.Context(), programID)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]memberResponse, 0, len(members))
	for _, m := range members {
		resp = append(resp, toMemberResponse(m))
	}
	writeJSON(w, http.StatusOK, map[string]any{"members": resp})
}

type auditEventResponse struct {
	Action    string `json:"action"`
	Timestamp string `json:"timestamp"`
	FamilyID  string `json:"familyId,omitempty"`
	AgentID   string `json:"agentId,omitempty"`
	RequestID string `json:"requestId,omitempty"`
	Detail    string `json:"detail,omitempty"`
}

// handleMemberAudit returns the audit trail for one member, oldest first.
func (h *Handler) handleMemberAudit(w http.ResponseWriter, r *http.Request) {
	memberID, err := memberIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	events, err := h.auditTrail.ListByMember(r.Context(), memberID.String())
	if err != nil {
		writeError(w, domainerrors.Wrap(err, domainerrors.CodeInternal, "load audit trail"))
		return
	}

	resp := make([]auditEventResponse, 0, len(events))
	for _, event := range events {
		resp = append(resp, toAuditEventResponse(event))
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": resp})
}

func toAuditEventResponse(event audit.Event) auditEventResponse {
	return auditEventResponse{
		Action:    string(event.Action),
		Timestamp: event.Timestamp.UTC().Format(timeFormat),
		FamilyID:  event.FamilyID,
		AgentID:   string(event.AgentID),
		RequestID: event.RequestID,
		Detail:    event.Detail,
	}
}

func memberIDParam(r *http.Request) (id.MemberID, error) {
	memberID, err := id.ParseMemberID(chi.URLParam(r, "memberID"))
	if err != nil {
		return id.MemberID{}, domainerrors.Wrap(err, domainerrors.CodeBadRequest, "invalid member id")
	}
	return memberID, nil
}
