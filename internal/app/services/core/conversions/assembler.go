package conversions

import (
	"formbridge-service/internal/pkg/constvars"
	"formbridge-service/internal/pkg/dto/requests"
	"formbridge-service/internal/pkg/fhir_dto"
	"time"
)

// ResponseAssembler wraps converted items and response metadata into a
// complete QuestionnaireResponse envelope. Assembly always succeeds given
// well-typed inputs; no validation happens here.
type ResponseAssembler struct {
	now func() time.Time
}

type AssemblerOption func(*ResponseAssembler)

// WithClock replaces the wall clock used for meta.lastUpdated.
func WithClock(now func() time.Time) AssemblerOption {
	return func(a *ResponseAssembler) {
		a.now = now
	}
}

func NewResponseAssembler(opts ...AssemblerOption) *ResponseAssembler {
	assembler := &ResponseAssembler{now: time.Now}
	for _, opt := range opts {
		opt(assembler)
	}
	return assembler
}

// Assemble builds the envelope. The authored timestamp is carried verbatim
// from the metadata; meta.lastUpdated is regenerated at assembly time.
func (a *ResponseAssembler) Assemble(items []fhir_dto.QuestionnaireResponseItem, metadata requests.ResponseMetadata) fhir_dto.QuestionnaireResponse {
	status := metadata.Status
	if status == "" {
		status = constvars.FhirQuestionnaireResponseStatusCompleted
	}

	response := fhir_dto.QuestionnaireResponse{
		ResourceType:  constvars.ResourceQuestionnaireResponse,
		Status:        status,
		Questionnaire: constvars.ResourceQuestionnaire + "/" + metadata.FormID,
		Subject: &fhir_dto.Reference{
			Reference: constvars.ResourcePatient + "/" + metadata.PatientID,
		},
		Authored: metadata.Timestamp,
		Item:     items,
		Meta: &fhir_dto.Meta{
			Profile:     []string{constvars.FhirSDCQuestionnaireResponseProfile},
			LastUpdated: a.now().UTC(),
		},
	}

	if metadata.AuthorID != "" {
		response.Author = &fhir_dto.Reference{
			Reference: constvars.ResourcePractitioner + "/" + metadata.AuthorID,
		}
	}
	if metadata.EncounterID != "" {
		response.Encounter = &fhir_dto.Reference{
			Reference: constvars.ResourceEncounter + "/" + metadata.EncounterID,
		}
	}

	return response
}
