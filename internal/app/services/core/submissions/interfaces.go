package submissions

import (
	"context"
	"formbridge-service/internal/app/models"
	"formbridge-service/internal/pkg/dto/requests"
	"formbridge-service/internal/pkg/dto/responses"
)

type SubmissionUsecase interface {
	ProcessSubmission(ctx context.Context, request *requests.CreateSubmission) (*responses.Submission, error)
	PreviewSubmission(ctx context.Context, request *requests.CreateSubmission) (*responses.PreviewSubmission, error)
	AmendSubmission(ctx context.Context, submissionID string, request *requests.CreateSubmission) (*responses.Submission, error)
	RetractSubmission(ctx context.Context, submissionID string) (*responses.Submission, error)
	FindSubmissionByID(ctx context.Context, submissionID string) (*models.Submission, error)
}

// SubmissionQueuePublisher is the slice of the queue service the controller
// needs to hand a submission to the asynchronous pipeline.
type SubmissionQueuePublisher interface {
	Publish(ctx context.Context, body []byte) error
}
