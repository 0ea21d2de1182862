package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"samadhan/internal/eligibility"
	"samadhan/internal/member"
	"samadhan/internal/registration"
	id "samadhan/pkg/domain"
	domainerrors "samadhan/pkg/domain-errors"
)

type startSessionRequest struct {
	ProgramID      string          `json:"programId"`
	Name           string          `json:"name"`
	PhoneNumber    string          `json:"phoneNumber"`
	DateOfBirth    string          `json:"dateOfBirth"`
	AadharLastFour string          `json:"aadharLastFour"`
	FamilyID       string          `json:"familyId"`
	Location       member.Location `json:"location"`
}

type sessionResponse struct {
	ID                string              `json:"id"`
	ProgramID         string              `json:"programId"`
	Name              string              `json:"name"`
	PhoneNumber       string              `json:"phoneNumber,omitempty"`
	DateOfBirth       string              `json:"dateOfBirth,omitempty"`
	AadharLastFour    string              `json:"aadharLastFour,omitempty"`
	FamilyID          string              `json:"familyId,omitempty"`
	Location          member.Location     `json:"location"`
	Answers           map[string][]string `json:"answers"`
	EligibleSchemes   []eligibility.Match `json:"eligibleSchemes"`
	EligibleDocuments []eligibility.Match `json:"eligibleDocuments"`
	ExpiresAt         string              `json:"expiresAt"`
}

func toSessionResponse(s registration.Session) sessionResponse {
	answers := make(map[string][]string, s.Answers.Len())
	for questionID, values := range s.Answers.Values() {
		answers[string(questionID)] = values
	}
	familyID := ""
	if !s.FamilyID.IsNil() {
		familyID = s.FamilyID.String()
	}
	return sessionResponse{
		ID:                s.ID.String(),
		ProgramID:         string(s.ProgramID),
		Name:              s.Name,
		PhoneNumber:       s.PhoneNumber,
		DateOfBirth:       s.DateOfBirth,
		AadharLastFour:    s.AadharLastFour,
		FamilyID:          familyID,
		Location:          s.Location,
		Answers:           answers,
		EligibleSchemes:   emptyIfNil(s.EligibleSchemes),
		EligibleDocuments: emptyIfNil(s.EligibleDocuments),
		ExpiresAt:         s.ExpiresAt.UTC().Format(timeFormat),
	}
}

func (h *Handler) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	input := registration.StartSessionInput{
		ProgramID:      id.ProgramID(req.ProgramID),
		Name:           req.Name,
		PhoneNumber:    req.PhoneNumber,
		DateOfBirth:    req.DateOfBirth,
		AadharLastFour: req.AadharLastFour,
		Location:       req.Location,
	}
	if req.FamilyID != "" {
		familyID, err := id.ParseFamilyID(req.FamilyID)
		if err != nil {
			writeError(w, domainerrors.Wrap(err, domainerrors.CodeBadRequest, "invalid family id"))
			return
		}
		input.FamilyID = familyID
	}

	session, err := h.registrations.Start(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSessionResponse(session))
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := sessionIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	session, err := h.registrations.Get(r.Context(), sessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(session))
}

type setAnswersRequest struct {
	Answers map[string][]string `json:"answers"`
}

func (h *Handler) handleSetAnswers(w http.ResponseWriter, r *http.Request) {
	sessionID, err := sessionIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req setAnswersRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	answers := make(map[id.QuestionID][]string, len(req.Answers))
	for questionID, values := range req.Answers {
		answers[id.QuestionID(questionID)] = values
	}
	session, err := h.registrations.SetAnswers(r.Context(), sessionID, answers)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(session))
}

type evaluationResponse struct {
	EligibleSchemes   []eligibility.Match `json:"eligibleSchemes"`
	EligibleDocuments []eligibility.Match `json:"eligibleDocuments"`
	Schemes           []schemeResponse    `json:"schemes"`
	Documents         []documentResponse  `json:"documents"`
}

func (h *Handler) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	sessionID, err := sessionIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := h.registrations.Evaluate(r.Context(), sessionID)
	if err != nil {
		writeError(w, err)
		return
	}

	lang := r.URL.Query().Get("lang")
	resp := evaluationResponse{
		EligibleSchemes:   emptyIfNil(result.SchemeMatches),
		EligibleDocuments: emptyIfNil(result.DocumentMatches),
		Schemes:           make([]schemeResponse, 0, len(result.Schemes)),
		Documents:         make([]documentResponse, 0, len(result.Documents)),
	}
	for _, scheme := range result.Schemes {
		resp.Schemes = append(resp.Schemes, toSchemeResponse(scheme, lang))
	}
	for _, document := range result.Documents {
		resp.Documents = append(resp.Documents, toDocumentResponse(document, lang))
	}
	writeJSON(w, http.StatusOK, resp)
}

type registerRequest struct {
	OnDuplicate string `json:"onDuplicate"`
}

type registerResponse struct {
	Outcome string         `json:"outcome"`
	Member  memberResponse `json:"member"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	sessionID, err := sessionIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req registerRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
	}

	registered, outcome, err := h.registrations.Register(r.Context(), sessionID, member.Decision(req.OnDuplicate))
	if err != nil {
		writeError(w, err)
		return
	}

	status := http.StatusOK
	if outcome == member.OutcomeCreated {
		status = http.StatusCreated
	}
	if outcome == member.OutcomeDuplicate {
		status = http.StatusConflict
	}
	writeJSON(w, status, registerResponse{Outcome: string(outcome), Member: toMemberResponse(registered)})
}

func sessionIDParam(r *http.Request) (id.SessionID, error) {
	sessionID, err := id.ParseSessionID(chi.URLParam(r, "sessionID"))
	if err != nil {
		return id.SessionID{}, domainerrors.Wrap(err, domainerrors.CodeBadRequest, "invalid session id")
	}
	return sessionID, nil
}

func emptyIfNil(matches []eligibility.Match) []eligibility.Match {
	if matches == nil {
		return []eligibility.Match{}
	}
	return matches
}
