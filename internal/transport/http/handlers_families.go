package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"samadhan/internal/family"
	id "samadhan/pkg/domain"
	domainerrors "samadhan/pkg/domain-errors"
)

type createFamilyRequest struct {
	FamilyName string   `json:"familyName"`
	ProgramID  string   `json:"programId"`
	MemberIDs  []string `json:"memberIds"`
}

type familyResponse struct {
	ID                 string   `json:"id"`
	FamilyName         string   `json:"familyName"`
	ProgramID          string   `json:"programId"`
	MemberIDs          []string `json:"memberIds"`
	MemberNames        []string `json:"memberNames"`
	MemberAadharList   []string `json:"memberAadharList"`
	MemberPhoneNumbers []string `json:"memberPhoneNumbers"`
	CreatedAt          string   `json:"createdAt"`
	UpdatedAt          string   `json:"updatedAt"`
}

func toFamilyResponse(f family.Family) familyResponse {
	memberIDs := make([]string, len(f.MemberIDs))
	for i, memberID := range f.MemberIDs {
		memberIDs[i] = memberID.String()
	}
	return familyResponse{
		ID:                 f.ID.String(),
		FamilyName:         f.FamilyName,
		ProgramID:          string(f.ProgramID),
		MemberIDs:          memberIDs,
		MemberNames:        emptyStrings(f.MemberNames),
		MemberAadharList:   emptyStrings(f.MemberAadharList),
		MemberPhoneNumbers: emptyStrings(f.MemberPhoneNumbers),
		CreatedAt:          f.CreatedAt.UTC().Format(timeFormat),
		UpdatedAt:          f.UpdatedAt.UTC().Format(timeFormat),
	}
}

func (h *Handler) handleCreateFamily(w http.ResponseWriter, r *http.Request) {
	var req createFamilyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	memberIDs, err := parseMemberIDs(req.MemberIDs)
	if err != nil {
		writeError(w, err)
		return
	}

	created, err := h.families.Create(r.Context(), req.FamilyName, id.ProgramID(req.ProgramID), memberIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toFamilyResponse(created))
}

func (h *Handler) handleGetFamily(w http.ResponseWriter, r *http.Request) {
	familyID, err := familyIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	f, err := h.families.Get(r.Context(), familyID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toFamilyResponse(f))
}

// handleListFamilies lists a program's families, optionally filtered by a
// name or aadhar fragment via the q parameter.
func (h *Handler) handleListFamilies(w http.ResponseWriter, r *http.Request) {
	programID := id.ProgramID(r.URL.Query().Get("programId"))
	families, err := h.families.Search(r.Context(), programID, r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]familyResponse, 0, len(families))
	for _, f := range families {
		resp = append(resp, toFamilyResponse(f))
	}
	writeJSON(w, http.StatusOK, map[string]any{"families": resp})
}

type attachMemberRequest struct {
	MemberID string `json:"memberId"`
}

// handleAttachMember adds one member to a family; attaching an already listed
// member is a no-op.
func (h *Handler) handleAttachMember(w http.ResponseWriter, r *http.Request) {
	familyID, err := familyIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req attachMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	memberID, err := id.ParseMemberID(req.MemberID)
	if err != nil {
		writeError(w, domainerrors.Wrap(err, domainerrors.CodeBadRequest, "invalid member id"))
		return
	}

	m, err := h.members.Get(r.Context(), memberID)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.families.AttachMember(r.Context(), familyID, m); err != nil {
		writeError(w, err)
		return
	}
	updated, err := h.families.Get(r.Context(), familyID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toFamilyResponse(updated))
}

type setMembershipRequest struct {
	MemberIDs []string `json:"memberIds"`
}

func (h *Handler) handleSetMembership(w http.ResponseWriter, r *http.Request) {
	familyID, err := familyIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req setMembershipRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	memberIDs, err := parseMemberIDs(req.MemberIDs)
	if err != nil {
		writeError(w, err)
		return
	}

	updated, err := h.families.SetMembership(r.Context(), familyID, memberIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toFamilyResponse(updated))
}

func familyIDParam(r *http.Request) (id.FamilyID, error) {
	familyID, err := id.ParseFamilyID(chi.URLParam(r, "familyID"))
	if err != nil {
		return id.FamilyID{}, domainerrors.Wrap(err, domainerrors.CodeBadRequest, "invalid family id")
	}
	return familyID, nil
}

func parseMemberIDs(raw []string) ([]id.MemberID, error) {
	memberIDs := make([]id.MemberID, 0, len(raw))
	for _, s := range raw {
		memberID, err := id.ParseMemberID(s)
		if err != nil {
			return nil, domainerrors.Wrap(err, domainerrors.CodeBadRequest, "invalid member id")
		}
		memberIDs = append(memberIDs, memberID)
	}
	return memberIDs, nil
}

func emptyStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
