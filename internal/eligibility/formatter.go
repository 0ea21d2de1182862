package eligibility

import (
	"samadhan/internal/catalog"
	id "samadhan/pkg/domain"
)

// SelectedOption is one element of a persisted answer. Choice answers carry
// the resolved option ID and name; Number answers carry the raw value in Name
// with an empty ID, keeping one on-disk shape across question types.
type SelectedOption struct {
	ID   id.OptionID `json:"id,omitempty"`
	Name string      `json:"name"`
}

// QuestionAnswer is the persisted shape of one answered question on a member
// record.
type QuestionAnswer struct {
	QuestionID      id.QuestionID       `json:"questionId"`
	ConceptName     string              `json:"conceptName"`
	ConceptType     catalog.ConceptType `json:"conceptType"`
	SelectedOptions []SelectedOption    `json:"selectedOptions"`
}

// Format converts session answers into the persisted QuestionAnswers shape.
// Number questions always emit a single-element list, empty-string when
// unanswered. Choice questions resolve each selected option ID against the
// question's option list; IDs with no match are dropped, never substituted
// with a placeholder.
func Format(questions []catalog.Question, answers *AnswerSet) []QuestionAnswer {
	formatted := make([]QuestionAnswer, 0, len(questions))
	for _, question := range questions {
		qa := QuestionAnswer{
			QuestionID:  question.ID,
			ConceptName: question.ConceptName,
			ConceptType: question.ConceptType,
		}
		answer := answers.Get(question.ID)

		switch question.ConceptType {
		case catalog.ConceptNumber:
			value := ""
			if len(answer) > 0 {
				value = answer[0]
			}
			qa.SelectedOptions = []SelectedOption{{Name: value}}
		case catalog.ConceptChoice:
			qa.SelectedOptions = make([]SelectedOption, 0, len(answer))
			for _, raw := range answer {
				if option, ok := question.Option(id.OptionID(raw)); ok {
					qa.SelectedOptions = append(qa.SelectedOptions, SelectedOption{
						ID:   option.ID,
						Name: option.Name,
					})
				}
			}
		default:
			// Unknown concept types keep the raw values so nothing is lost.
			qa.SelectedOptions = make([]SelectedOption, 0, len(answer))
			for _, raw := range answer {
				qa.SelectedOptions = append(qa.SelectedOptions, SelectedOption{Name: raw})
			}
		}
		formatted = append(formatted, qa)
	}
	return formatted
}
