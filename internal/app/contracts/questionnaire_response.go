package contracts

import (
	"context"
	"formbridge-service/internal/pkg/fhir_dto"
)

type QuestionnaireResponseFhirClient interface {
	CreateQuestionnaireResponse(ctx context.Context, questionnaireResponse *fhir_dto.QuestionnaireResponse) (*fhir_dto.QuestionnaireResponse, error)
	UpdateQuestionnaireResponse(ctx context.Context, questionnaireResponse *fhir_dto.QuestionnaireResponse) (*fhir_dto.QuestionnaireResponse, error)
	FindQuestionnaireResponseByID(ctx context.Context, questionnaireResponseID string) (*fhir_dto.QuestionnaireResponse, error)
	DeleteQuestionnaireResponseByID(ctx context.Context, questionnaireResponseID string) error
}
