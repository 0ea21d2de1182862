package eligibility

import (
	id "samadhan/pkg/domain"
)

// DefaultLanguage is the base language descriptive fields are stored in.
const DefaultLanguage = "en"

// LocalizedText maps language codes to a descriptive field's variants. The
// stored source keeps language-suffixed fields (name_hindi, name_marathi);
// the map form normalizes that.
type LocalizedText map[string]string

// Get returns the variant for lang, falling back to the base language when
// the variant is absent or empty.
func (t LocalizedText) Get(lang string) string {
	if v, ok := t[lang]; ok && v != "" {
		return v
	}
	return t[DefaultLanguage]
}

// Scheme is a welfare benefit with eligibility criteria. A scheme with no
// criteria is open to all.
type Scheme struct {
	ID          id.SchemeID
	ProgramID   id.ProgramID
	Name        string
	Description LocalizedText
	Criteria    []Criterion
}

// Document is a paperwork category with eligibility criteria, plus the
// descriptors an applicant must bring.
type Document struct {
	ID                  id.DocumentID
	ProgramID           id.ProgramID
	Name                string
	Description         LocalizedText
	Criteria            []Criterion
	RequiredDescriptors []string
}

// Match is the compact {id, name} pair persisted on a member record. The full
// matching entities travel separately for detail display.
type Match struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
