package eligibility

// This file is pure domain logic - no I/O, no side effects. Evaluation never
// returns an error: malformed criteria and missing answers degrade to "not
// eligible" so one bad record cannot abort a whole eligibility pass.

// Evaluate tests every criterion against the answers, composing with logical
// AND. An empty criteria list is vacuously eligible: schemes with no stated
// prerequisites are open to all.
func Evaluate(criteria []Criterion, answers *AnswerSet) bool {
	for _, criterion := range criteria {
		if !evaluateCriterion(criterion, answers.Get(criterion.QuestionID)) {
			return false
		}
	}
	return true
}

// EvaluateSchemes returns the compact matches and the full matching schemes,
// preserving input order.
func EvaluateSchemes(schemes []Scheme, answers *AnswerSet) ([]Match, []Scheme) {
	matches := make([]Match, 0, len(schemes))
	var matched []Scheme
	for _, scheme := range schemes {
		if Evaluate(scheme.Criteria, answers) {
			matches = append(matches, Match{ID: string(scheme.ID), Name: scheme.Name})
			matched = append(matched, scheme)
		}
	}
	return matches, matched
}

// EvaluateDocuments returns the compact matches and the full matching
// documents, preserving input order.
func EvaluateDocuments(documents []Document, answers *AnswerSet) ([]Match, []Document) {
	matches := make([]Match, 0, len(documents))
	var matched []Document
	for _, document := range documents {
		if Evaluate(document.Criteria, answers) {
			matches = append(matches, Match{ID: string(document.ID), Name: document.Name})
			matched = append(matched, document)
		}
	}
	return matches, matched
}
