package responses

import "formbridge-service/internal/pkg/fhir_dto"

type Submission struct {
	SubmissionID            string   `json:"submissionId"`
	Status                  string   `json:"status"`
	QuestionnaireResponseID string   `json:"questionnaireResponseId,omitempty"`
	ValidationErrors        []string `json:"validationErrors,omitempty"`
}

type PreviewSubmission struct {
	QuestionnaireResponse *fhir_dto.QuestionnaireResponse `json:"questionnaireResponse"`
}

type EnqueueSubmission struct {
	MessageID string `json:"messageId"`
}

type Health struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies"`
}
