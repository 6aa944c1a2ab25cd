package requests

// QuestionAnswerItem is one question/answer/text triple from the AI output.
type QuestionAnswerItem struct {
	QuestionID   string `json:"questionId"`
	QuestionText string `json:"questionText"`
	Answer       Answer `json:"answer"`
}

// ResponseMetadata is the conversion context carried beside the answers.
type ResponseMetadata struct {
	FormID      string
	PatientID   string
	Timestamp   string
	AuthorID    string
	EncounterID string
	Status      string
}

// CreateSubmission is the inbound payload, shared by the HTTP controller and
// the queue consumer.
type CreateSubmission struct {
	MessageID   string               `json:"messageId,omitempty"`
	FormID      string               `json:"formId" validate:"required"`
	PatientID   string               `json:"patientId" validate:"required"`
	Timestamp   string               `json:"timestamp" validate:"required,iso8601"`
	AuthorID    string               `json:"authorId,omitempty"`
	EncounterID string               `json:"encounterId,omitempty"`
	Status      string               `json:"status,omitempty" validate:"omitempty,oneof=in-progress completed amended entered-in-error stopped"`
	Source      string               `json:"source,omitempty"`
	Answers     []QuestionAnswerItem `json:"answers"`
}

// Metadata projects the submission envelope into the assembler's context.
func (r *CreateSubmission) Metadata() ResponseMetadata {
	return ResponseMetadata{
		FormID:      r.FormID,
		PatientID:   r.PatientID,
		Timestamp:   r.Timestamp,
		AuthorID:    r.AuthorID,
		EncounterID: r.EncounterID,
		Status:      r.Status,
	}
}
