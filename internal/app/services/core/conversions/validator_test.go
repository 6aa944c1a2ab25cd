package conversions

import (
	"testing"

	"formbridge-service/internal/pkg/dto/requests"

	"github.com/stretchr/testify/assert"
)

func completeItems() []requests.QuestionAnswerItem {
	return []requests.QuestionAnswerItem{
		{QuestionID: "patient-age", QuestionText: "Age?", Answer: requests.NewNumberAnswer(45)},
		{QuestionID: "patient-gender", QuestionText: "Gender?", Answer: requests.NewStringAnswer("Female")},
		{QuestionID: "current-bmi", QuestionText: "BMI?", Answer: requests.NewNumberAnswer(32.5)},
		{QuestionID: "current-weight", QuestionText: "Weight?", Answer: requests.NewNumberAnswer(89.4)},
		{QuestionID: "comorbidities", QuestionText: "Comorbidities?", Answer: requests.NewStringListAnswer([]string{"Hypertension"})},
		{QuestionID: "previous-weight-loss-medications", QuestionText: "Previous medications?", Answer: requests.NewStringListAnswer([]string{"Orlistat"})},
	}
}

func TestItemValidator_Validate(t *testing.T) {
	validator := NewItemValidator(DefaultRequiredQuestionIDs)

	t.Run("complete submission passes", func(t *testing.T) {
		result := validator.Validate(completeItems())

		assert.True(t, result.IsValid)
		assert.Empty(t, result.Errors)
	})

	t.Run("nil answers short-circuits", func(t *testing.T) {
		result := validator.Validate(nil)

		assert.False(t, result.IsValid)
		assert.Equal(t, []string{"answers must be an array"}, result.Errors)
	})

	t.Run("empty answers short-circuits", func(t *testing.T) {
		result := validator.Validate([]requests.QuestionAnswerItem{})

		assert.False(t, result.IsValid)
		assert.Equal(t, []string{"questionnaire answers cannot be empty"}, result.Errors)
	})

	t.Run("missing required questions reported in declaration order", func(t *testing.T) {
		items := []requests.QuestionAnswerItem{
			{QuestionID: "patient-age", QuestionText: "Age?", Answer: requests.NewNumberAnswer(45)},
			{QuestionID: "current-bmi", QuestionText: "BMI?", Answer: requests.NewNumberAnswer(32.5)},
		}

		result := validator.Validate(items)

		assert.False(t, result.IsValid)
		assert.Equal(t, []string{
			"missing required questions: patient-gender, current-weight, comorbidities, previous-weight-loss-medications",
		}, result.Errors)
	})

	t.Run("per-item errors carry zero-based positions", func(t *testing.T) {
		items := completeItems()
		items[1].QuestionID = ""
		items[3].QuestionText = ""
		items[4].Answer = requests.Answer{Kind: requests.AnswerKindAbsent}

		result := validator.Validate(items)

		assert.False(t, result.IsValid)
		assert.Contains(t, result.Errors, "Item 1: missing questionId")
		assert.Contains(t, result.Errors, "Item 3: missing questionText")
		assert.Contains(t, result.Errors, "Item 4: missing answer")
	})

	t.Run("empty string answer is not a missing answer", func(t *testing.T) {
		items := completeItems()
		items[5].Answer = requests.NewStringAnswer("")

		result := validator.Validate(items)

		assert.True(t, result.IsValid)
	})

	t.Run("input is never mutated", func(t *testing.T) {
		items := completeItems()
		items[0].QuestionID = ""
		before := make([]requests.QuestionAnswerItem, len(items))
		copy(before, items)

		validator.Validate(items)

		assert.Equal(t, before, items)
	})

	t.Run("all problems are reported together", func(t *testing.T) {
		items := []requests.QuestionAnswerItem{
			{QuestionID: "", QuestionText: "", Answer: requests.Answer{Kind: requests.AnswerKindAbsent}},
		}

		result := validator.Validate(items)

		assert.False(t, result.IsValid)
		assert.Len(t, result.Errors, 4)
		assert.Equal(t, "missing required questions: patient-age, patient-gender, current-bmi, current-weight, comorbidities, previous-weight-loss-medications", result.Errors[0])
	})
}
