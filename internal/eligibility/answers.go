package eligibility

import (
	id "samadhan/pkg/domain"
)

// AnswerSet holds a registration session's answers keyed by question ID.
// Values are always string slices - a single numeric string for Number
// questions, one or more option IDs for Choice questions - so numeric and
// choice handling stay uniform. The set is scoped to one session and is not
// safe for concurrent mutation; a session is only touched by one request at
// a time.
type AnswerSet struct {
	answers map[id.QuestionID][]string
}

func NewAnswerSet() *AnswerSet {
	return &AnswerSet{answers: make(map[id.QuestionID][]string)}
}

// Set records the answer for a question, replacing any previous value. The
// slice is copied so later caller mutations cannot corrupt the session.
func (a *AnswerSet) Set(questionID id.QuestionID, values []string) {
	copied := make([]string, len(values))
	copy(copied, values)
	a.answers[questionID] = copied
}

// Get returns the recorded answer, or nil when the question is unanswered.
func (a *AnswerSet) Get(questionID id.QuestionID) []string {
	return a.answers[questionID]
}

// QuestionIDs returns the IDs of every answered question.
func (a *AnswerSet) QuestionIDs() []id.QuestionID {
	ids := make([]id.QuestionID, 0, len(a.answers))
	for questionID := range a.answers {
		ids = append(ids, questionID)
	}
	return ids
}

// Len returns the number of answered questions.
func (a *AnswerSet) Len() int {
	return len(a.answers)
}

// Values returns a copy of every answer, for serialization.
func (a *AnswerSet) Values() map[id.QuestionID][]string {
	values := make(map[id.QuestionID][]string, len(a.answers))
	for questionID, answer := range a.answers {
		values[questionID] = append([]string{}, answer...)
	}
	return values
}
