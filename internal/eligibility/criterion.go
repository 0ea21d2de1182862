package eligibility

import (
	"math"
	"strconv"

	id "samadhan/pkg/domain"
)

// Operation is a numeric comparison applied by a criterion.
type Operation string

const (
	OpEqual          Operation = "=="
	OpNotEqual       Operation = "!="
	OpGreater        Operation = ">"
	OpLess           Operation = "<"
	OpGreaterOrEqual Operation = ">="
	OpLessOrEqual    Operation = "<="
	OpBetween        Operation = "between"
)

// Criterion is one eligibility test tied to a single question. Exactly one of
// Numeric or Set is populated; the variant is resolved once at load time by
// ParseCriterion rather than re-inspected at evaluation time.
type Criterion struct {
	QuestionID id.QuestionID
	Numeric    *NumericCriterion
	Set        *SetCriterion
}

// NumericCriterion compares the answer against one bound, or two for between.
// Bounds keep the stored string form; parsing happens at evaluation so a
// malformed bound degrades to a failing criterion instead of a load error.
type NumericCriterion struct {
	Operation Operation
	Bounds    []string
}

// SetCriterion passes when the answer shares at least one option with the
// required set (OR within the criterion; AND across criteria).
type SetCriterion struct {
	RequiredOptionIDs []id.OptionID
}

// CriterionRecord is the stored wire shape (source field schemeQuestions).
// The shape is irregular: operation-based records carry inputValue, set
// records carry requiredOptionIds, and absence of operation implies set
// semantics regardless of what else is present.
type CriterionRecord struct {
	QuestionID        string   `json:"questionId"`
	Operation         string   `json:"operation,omitempty"`
	InputValue        []string `json:"inputValue,omitempty"`
	RequiredOptionIDs []string `json:"requiredOptionIds,omitempty"`
}

// ParseCriterion resolves the wire record into the tagged variant.
func ParseCriterion(rec CriterionRecord) Criterion {
	c := Criterion{QuestionID: id.QuestionID(rec.QuestionID)}
	if rec.Operation != "" {
		c.Numeric = &NumericCriterion{
			Operation: Operation(rec.Operation),
			Bounds:    rec.InputValue,
		}
		return c
	}
	required := make([]id.OptionID, 0, len(rec.RequiredOptionIDs))
	for _, optionID := range rec.RequiredOptionIDs {
		required = append(required, id.OptionID(optionID))
	}
	c.Set = &SetCriterion{RequiredOptionIDs: required}
	return c
}

// ParseCriteria maps ParseCriterion over a record list.
func ParseCriteria(records []CriterionRecord) []Criterion {
	criteria := make([]Criterion, 0, len(records))
	for _, rec := range records {
		criteria = append(criteria, ParseCriterion(rec))
	}
	return criteria
}

// Record converts the tagged variant back into the stored wire shape.
func (c Criterion) Record() CriterionRecord {
	rec := CriterionRecord{QuestionID: string(c.QuestionID)}
	if c.Numeric != nil {
		rec.Operation = string(c.Numeric.Operation)
		rec.InputValue = c.Numeric.Bounds
		return rec
	}
	if c.Set != nil {
		for _, optionID := range c.Set.RequiredOptionIDs {
			rec.RequiredOptionIDs = append(rec.RequiredOptionIDs, string(optionID))
		}
	}
	return rec
}

// evaluateCriterion tests one criterion against the recorded answer. Pure
// function of its inputs; malformed data evaluates false, never panics.
func evaluateCriterion(c Criterion, answer []string) bool {
	switch {
	case c.Numeric != nil:
		return evaluateNumeric(*c.Numeric, answer)
	case c.Set != nil:
		return evaluateSet(*c.Set, answer)
	default:
		return false
	}
}

// evaluateNumeric applies the comparison. A missing or non-numeric answer, or
// a malformed bound, fails the criterion for every operator including "!=":
// no answer is a failing condition, preserved as documented policy.
func evaluateNumeric(n NumericCriterion, answer []string) bool {
	value, ok := parseNumber(first(answer))
	if !ok {
		return false
	}
	low, ok := parseNumber(bound(n.Bounds, 0))
	if !ok {
		return false
	}

	switch n.Operation {
	case OpEqual:
		return value == low
	case OpNotEqual:
		return value != low
	case OpGreater:
		return value > low
	case OpLess:
		return value < low
	case OpGreaterOrEqual:
		return value >= low
	case OpLessOrEqual:
		return value <= low
	case OpBetween:
		high, ok := parseNumber(bound(n.Bounds, 1))
		if !ok {
			return false
		}
		// Inclusive on both ends; first bound is min, second is max as stored.
		return low <= value && value <= high
	default:
		return false
	}
}

// evaluateSet passes when the intersection of required options and the answer
// is non-empty.
func evaluateSet(s SetCriterion, answer []string) bool {
	if len(s.RequiredOptionIDs) == 0 || len(answer) == 0 {
		return false
	}
	selected := make(map[id.OptionID]bool, len(answer))
	for _, v := range answer {
		selected[id.OptionID(v)] = true
	}
	for _, required := range s.RequiredOptionIDs {
		if selected[required] {
			return true
		}
	}
	return false
}

// parseNumber accepts only finite numbers; "NaN" and the infinities fail.
func parseNumber(raw string) (float64, bool) {
	if raw == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func bound(bounds []string, index int) string {
	if index >= len(bounds) {
		return ""
	}
	return bounds[index]
}
