package conversions

import (
	"testing"
	"time"

	"formbridge-service/internal/pkg/constvars"
	"formbridge-service/internal/pkg/dto/requests"
	"formbridge-service/internal/pkg/fhir_dto"

	"github.com/stretchr/testify/assert"
)

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2025, time.September, 13, 10, 5, 0, 0, time.UTC)
	}
}

func TestResponseAssembler_Assemble(t *testing.T) {
	assembler := NewResponseAssembler(WithClock(fixedClock()))

	age := 45
	items := []fhir_dto.QuestionnaireResponseItem{
		{
			LinkID: "patient-age",
			Text:   "Age?",
			Answer: []fhir_dto.QuestionnaireResponseItemAnswer{{ValueInteger: &age}},
		},
	}

	t.Run("builds the full envelope", func(t *testing.T) {
		response := assembler.Assemble(items, requests.ResponseMetadata{
			FormID:    "test-form-123",
			PatientID: "patient-456",
			Timestamp: "2025-09-13T10:00:00Z",
		})

		assert.Equal(t, constvars.ResourceQuestionnaireResponse, response.ResourceType)
		assert.Equal(t, constvars.FhirQuestionnaireResponseStatusCompleted, response.Status)
		assert.Equal(t, "Questionnaire/test-form-123", response.Questionnaire)
		assert.NotNil(t, response.Subject)
		assert.Equal(t, "Patient/patient-456", response.Subject.Reference)
		assert.Equal(t, "2025-09-13T10:00:00Z", response.Authored)
		assert.Equal(t, items, response.Item)
		assert.NotNil(t, response.Meta)
		assert.Equal(t, []string{constvars.FhirSDCQuestionnaireResponseProfile}, response.Meta.Profile)
		assert.Equal(t, fixedClock()(), response.Meta.LastUpdated)
		assert.Nil(t, response.Author)
		assert.Nil(t, response.Encounter)
	})

	t.Run("status overrides the completed default", func(t *testing.T) {
		response := assembler.Assemble(items, requests.ResponseMetadata{
			FormID:    "test-form-123",
			PatientID: "patient-456",
			Timestamp: "2025-09-13T10:00:00Z",
			Status:    constvars.FhirQuestionnaireResponseStatusInProgress,
		})

		assert.Equal(t, constvars.FhirQuestionnaireResponseStatusInProgress, response.Status)
	})

	t.Run("optional references appear only when provided", func(t *testing.T) {
		response := assembler.Assemble(items, requests.ResponseMetadata{
			FormID:      "test-form-123",
			PatientID:   "patient-456",
			Timestamp:   "2025-09-13T10:00:00Z",
			AuthorID:    "practitioner-9",
			EncounterID: "encounter-77",
		})

		assert.NotNil(t, response.Author)
		assert.Equal(t, "Practitioner/practitioner-9", response.Author.Reference)
		assert.NotNil(t, response.Encounter)
		assert.Equal(t, "Encounter/encounter-77", response.Encounter.Reference)
	})

	t.Run("authored timestamp is carried verbatim", func(t *testing.T) {
		authored := "2025-09-13T12:30:00+07:00"
		response := assembler.Assemble(nil, requests.ResponseMetadata{
			FormID:    "test-form-123",
			PatientID: "patient-456",
			Timestamp: authored,
		})

		assert.Equal(t, authored, response.Authored)
	})

	t.Run("lastUpdated is independent of authored", func(t *testing.T) {
		response := assembler.Assemble(nil, requests.ResponseMetadata{
			FormID:    "test-form-123",
			PatientID: "patient-456",
			Timestamp: "2020-01-01T00:00:00Z",
		})

		assert.Equal(t, fixedClock()(), response.Meta.LastUpdated)
	})
}
