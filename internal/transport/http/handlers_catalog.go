package httptransport

import (
	"net/http"

	"samadhan/internal/catalog"
	"samadhan/internal/eligibility"
	id "samadhan/pkg/domain"
)

type schemeResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func toSchemeResponse(s eligibility.Scheme, lang string) schemeResponse {
	return schemeResponse{
		ID:          string(s.ID),
		Name:        s.Name,
		Description: s.Description.Get(lang),
	}
}

type documentResponse struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	Description         string   `json:"description,omitempty"`
	RequiredDescriptors []string `json:"requiredDescriptors"`
}

func toDocumentResponse(d eligibility.Document, lang string) documentResponse {
	return documentResponse{
		ID:                  string(d.ID),
		Name:                d.Name,
		Description:         d.Description.Get(lang),
		RequiredDescriptors: emptyStrings(d.RequiredDescriptors),
	}
}

// handleListSchemes returns a program's schemes with descriptive fields
// localized to lang, falling back to the base language.
func (h *Handler) handleListSchemes(w http.ResponseWriter, r *http.Request) {
	programID := id.ProgramID(r.URL.Query().Get("programId"))
	lang := r.URL.Query().Get("lang")

	schemes, err := h.rules.ListSchemes(r.Context(), programID)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := make([]schemeResponse, 0, len(schemes))
	for _, scheme := range schemes {
		resp = append(resp, toSchemeResponse(scheme, lang))
	}
	writeJSON(w, http.StatusOK, map[string]any{"schemes": resp})
}

func (h *Handler) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	programID := id.ProgramID(r.URL.Query().Get("programId"))
	lang := r.URL.Query().Get("lang")

	documents, err := h.rules.ListDocuments(r.Context(), programID)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := make([]documentResponse, 0, len(documents))
	for _, document := range documents {
		resp = append(resp, toDocumentResponse(document, lang))
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": resp})
}

type questionResponse struct {
	ID          string           `json:"id"`
	ConceptName string           `json:"conceptName"`
	ConceptType string           `json:"conceptType"`
	Options     []catalog.Option `json:"options"`
}

// handleGetQuestions returns a question batch with resolved options. IDs the
// catalog cannot name are absent from the response, not errors.
func (h *Handler) handleGetQuestions(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query()["id"]
	questionIDs := make([]id.QuestionID, 0, len(raw))
	for _, s := range raw {
		questionIDs = append(questionIDs, id.QuestionID(s))
	}

	questions, err := h.catalog.Questions(r.Context(), questionIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := make([]questionResponse, 0, len(questions))
	for _, q := range questions {
		options := q.Options
		if options == nil {
			options = []catalog.Option{}
		}
		resp = append(resp, questionResponse{
			ID:          string(q.ID),
			ConceptName: q.ConceptName,
			ConceptType: string(q.ConceptType),
			Options:     options,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"questions": resp})
}
