package catalog

import (
	id "samadhan/pkg/domain"
)

// ConceptType declares how a question's answers are interpreted. Evaluation
// branches on this declared type, never on the runtime shape of an answer.
type ConceptType string

const (
	ConceptNumber ConceptType = "Number"
	ConceptChoice ConceptType = "Choice"
)

// Option is a selectable choice for a Choice-type question.
type Option struct {
	ID   id.OptionID `json:"id"`
	Name string      `json:"name"`
}

// Question is immutable reference data owned by the catalog. OptionIDs is the
// stored shape; Options is resolved by the catalog service, with IDs the
// option store cannot name silently dropped.
type Question struct {
	ID          id.QuestionID `json:"id"`
	ConceptName string        `json:"conceptName"`
	ConceptType ConceptType   `json:"conceptType"`
	OptionIDs   []id.OptionID `json:"optionIds,omitempty"`
	Options     []Option      `json:"options,omitempty"`
}

// Option returns the resolved option with the given ID, if present.
func (q Question) Option(optionID id.OptionID) (Option, bool) {
	for _, opt := range q.Options {
		if opt.ID == optionID {
			return opt, true
		}
	}
	return Option{}, false
}
