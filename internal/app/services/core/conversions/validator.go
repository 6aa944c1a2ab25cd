package conversions

import (
	"fmt"
	"formbridge-service/internal/pkg/dto/requests"
	"strings"
)

// DefaultRequiredQuestionIDs are the questions every prior-authorization
// submission must answer, in the order they are reported when missing.
var DefaultRequiredQuestionIDs = []string{
	"patient-age",
	"patient-gender",
	"current-bmi",
	"current-weight",
	"comorbidities",
	"previous-weight-loss-medications",
}

type ValidationResult struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

// ItemValidator is the advisory pre-flight structural check invoked before
// conversion in strict mode. It never mutates or filters its input.
type ItemValidator struct {
	requiredQuestionIDs []string
}

func NewItemValidator(requiredQuestionIDs []string) *ItemValidator {
	return &ItemValidator{requiredQuestionIDs: requiredQuestionIDs}
}

// Validate checks the raw input in order: presence of the list, non-empty
// list, required question ids, then per-item required fields. The first two
// checks short-circuit; the remaining ones accumulate.
func (v *ItemValidator) Validate(items []requests.QuestionAnswerItem) ValidationResult {
	if items == nil {
		return ValidationResult{Errors: []string{"answers must be an array"}}
	}
	if len(items) == 0 {
		return ValidationResult{Errors: []string{"questionnaire answers cannot be empty"}}
	}

	var errors []string

	present := make(map[string]struct{}, len(items))
	for _, item := range items {
		present[item.QuestionID] = struct{}{}
	}
	var missing []string
	for _, required := range v.requiredQuestionIDs {
		if _, ok := present[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		errors = append(errors, "missing required questions: "+strings.Join(missing, ", "))
	}

	for index, item := range items {
		if item.QuestionID == "" {
			errors = append(errors, fmt.Sprintf("Item %d: missing questionId", index))
		}
		if item.QuestionText == "" {
			errors = append(errors, fmt.Sprintf("Item %d: missing questionText", index))
		}
		// Only a null/absent answer is a violation; an empty string passes
		// validation and is suppressed later by the item converter.
		if item.Answer.Kind == requests.AnswerKindAbsent {
			errors = append(errors, fmt.Sprintf("Item %d: missing answer", index))
		}
	}

	return ValidationResult{
		IsValid: len(errors) == 0,
		Errors:  errors,
	}
}
