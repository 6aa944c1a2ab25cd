package conversions

import (
	"testing"

	"formbridge-service/internal/pkg/constvars"
	"formbridge-service/internal/pkg/dto/requests"

	"github.com/stretchr/testify/assert"
)

func TestGenericItemConverter(t *testing.T) {
	converter := NewGenericItemConverter(NewAnswerFormatter(NewCodingTable()))

	t.Run("numeric item carries linkId, text and typed answer", func(t *testing.T) {
		item := converter.Convert(requests.QuestionAnswerItem{
			QuestionID:   "patient-age",
			QuestionText: "What is the patient's age?",
			Answer:       requests.NewNumberAnswer(45),
		})

		assert.Equal(t, "patient-age", item.LinkID)
		assert.Equal(t, "What is the patient's age?", item.Text)
		assert.Len(t, item.Answer, 1)
		assert.NotNil(t, item.Answer[0].ValueInteger)
		assert.Equal(t, 45, *item.Answer[0].ValueInteger)
	})

	t.Run("gender item resolves to a coding", func(t *testing.T) {
		item := converter.Convert(requests.QuestionAnswerItem{
			QuestionID:   "patient-gender",
			QuestionText: "What is the patient's gender?",
			Answer:       requests.NewStringAnswer("Female"),
		})

		assert.Len(t, item.Answer, 1)
		assert.NotNil(t, item.Answer[0].ValueCoding)
		assert.Equal(t, constvars.TerminologySystemAdministrativeGender, item.Answer[0].ValueCoding.System)
		assert.Equal(t, "female", item.Answer[0].ValueCoding.Code)
	})

	t.Run("empty string answer omits the answer field", func(t *testing.T) {
		item := converter.Convert(requests.QuestionAnswerItem{
			QuestionID:   "additional-notes",
			QuestionText: "Any additional notes?",
			Answer:       requests.NewStringAnswer(""),
		})

		assert.Equal(t, "additional-notes", item.LinkID)
		assert.Equal(t, "Any additional notes?", item.Text)
		assert.Nil(t, item.Answer)
	})

	t.Run("question text is carried verbatim", func(t *testing.T) {
		text := "  Current BMI (kg/m²)?  "
		item := converter.Convert(requests.QuestionAnswerItem{
			QuestionID:   "current-bmi",
			QuestionText: text,
			Answer:       requests.NewNumberAnswer(32.5),
		})

		assert.Equal(t, text, item.Text)
	})

	t.Run("multi-select stays plain strings without a schema", func(t *testing.T) {
		item := converter.Convert(requests.QuestionAnswerItem{
			QuestionID:   "comorbidities",
			QuestionText: "Comorbidities?",
			Answer:       requests.NewStringListAnswer([]string{"Type 2 Diabetes Mellitus", "Hypertension"}),
		})

		assert.Len(t, item.Answer, 2)
		assert.NotNil(t, item.Answer[0].ValueString)
		assert.Equal(t, "Type 2 Diabetes Mellitus", *item.Answer[0].ValueString)
		assert.NotNil(t, item.Answer[1].ValueString)
		assert.Equal(t, "Hypertension", *item.Answer[1].ValueString)
	})
}

func TestSchemaItemConverter(t *testing.T) {
	table := NewCodingTable()
	converter := NewSchemaItemConverter(NewAnswerFormatter(table), table)

	t.Run("comorbidity choices resolve to SNOMED codings", func(t *testing.T) {
		item := converter.Convert(requests.QuestionAnswerItem{
			QuestionID:   "comorbidities",
			QuestionText: "Comorbidities?",
			Answer:       requests.NewStringListAnswer([]string{"Type 2 Diabetes Mellitus", "Hypertension"}),
		})

		assert.Len(t, item.Answer, 2)
		assert.NotNil(t, item.Answer[0].ValueCoding)
		assert.Equal(t, constvars.TerminologySystemSNOMED, item.Answer[0].ValueCoding.System)
		assert.Equal(t, "44054006", item.Answer[0].ValueCoding.Code)
		assert.Equal(t, "Type 2 Diabetes Mellitus", item.Answer[0].ValueCoding.Display)
		assert.NotNil(t, item.Answer[1].ValueCoding)
		assert.Equal(t, "38341003", item.Answer[1].ValueCoding.Code)
	})

	t.Run("unknown choice value falls back to valueString", func(t *testing.T) {
		item := converter.Convert(requests.QuestionAnswerItem{
			QuestionID:   "comorbidities",
			QuestionText: "Comorbidities?",
			Answer:       requests.NewStringListAnswer([]string{"Rare Condition X"}),
		})

		assert.Len(t, item.Answer, 1)
		assert.Nil(t, item.Answer[0].ValueCoding)
		assert.NotNil(t, item.Answer[0].ValueString)
		assert.Equal(t, "Rare Condition X", *item.Answer[0].ValueString)
	})

	t.Run("medication choices resolve to RxNorm codings", func(t *testing.T) {
		item := converter.Convert(requests.QuestionAnswerItem{
			QuestionID:   "previous-weight-loss-medications",
			QuestionText: "Previous weight loss medications?",
			Answer:       requests.NewStringListAnswer([]string{"Orlistat"}),
		})

		assert.Len(t, item.Answer, 1)
		assert.NotNil(t, item.Answer[0].ValueCoding)
		assert.Equal(t, constvars.TerminologySystemRxNorm, item.Answer[0].ValueCoding.System)
		assert.Equal(t, "37925", item.Answer[0].ValueCoding.Code)
	})

	t.Run("numeric string resolves against the declared type", func(t *testing.T) {
		item := converter.Convert(requests.QuestionAnswerItem{
			QuestionID:   "patient-age",
			QuestionText: "Age?",
			Answer:       requests.NewStringAnswer("45"),
		})

		assert.Len(t, item.Answer, 1)
		assert.NotNil(t, item.Answer[0].ValueInteger)
		assert.Equal(t, 45, *item.Answer[0].ValueInteger)
	})

	t.Run("non-numeric string on a numeric question falls back to valueString", func(t *testing.T) {
		item := converter.Convert(requests.QuestionAnswerItem{
			QuestionID:   "current-bmi",
			QuestionText: "BMI?",
			Answer:       requests.NewStringAnswer("unknown"),
		})

		assert.Len(t, item.Answer, 1)
		assert.Nil(t, item.Answer[0].ValueCoding)
		assert.NotNil(t, item.Answer[0].ValueString)
		assert.Equal(t, "unknown", *item.Answer[0].ValueString)
	})

	t.Run("undeclared question uses the generic rules", func(t *testing.T) {
		item := converter.Convert(requests.QuestionAnswerItem{
			QuestionID:   "free-text",
			QuestionText: "Anything else?",
			Answer:       requests.NewStringAnswer("no further history"),
		})

		assert.Len(t, item.Answer, 1)
		assert.NotNil(t, item.Answer[0].ValueString)
		assert.Equal(t, "no further history", *item.Answer[0].ValueString)
	})
}
