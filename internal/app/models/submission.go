package models

import "time"

// Submission is the audit document persisted to mongo for every processed
// questionnaire submission, accepted or rejected.
type Submission struct {
	SubmissionID            string    `bson:"submission_id" json:"submissionId"`
	MessageID               string    `bson:"message_id,omitempty" json:"messageId,omitempty"`
	FormID                  string    `bson:"form_id" json:"formId"`
	PatientID               string    `bson:"patient_id" json:"patientId"`
	Source                  string    `bson:"source,omitempty" json:"source,omitempty"`
	Status                  string    `bson:"status" json:"status"`
	ValidationErrors        []string  `bson:"validation_errors,omitempty" json:"validationErrors,omitempty"`
	QuestionnaireResponseID string    `bson:"questionnaire_response_id,omitempty" json:"questionnaireResponseId,omitempty"`
	ArchivedObjectName      string    `bson:"archived_object_name,omitempty" json:"archivedObjectName,omitempty"`
	CreatedAt               time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt               time.Time `bson:"updated_at" json:"updatedAt"`
}
