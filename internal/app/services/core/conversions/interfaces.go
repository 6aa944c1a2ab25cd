package conversions

import (
	"formbridge-service/internal/pkg/dto/requests"
	"formbridge-service/internal/pkg/fhir_dto"
)

// ItemConverter turns one question/answer/text triple into one FHIR
// response item. Two interchangeable strategies exist: generic (shape
// driven) and schema-aware (declared types plus richer coding tables).
type ItemConverter interface {
	Convert(item requests.QuestionAnswerItem) fhir_dto.QuestionnaireResponseItem
}
