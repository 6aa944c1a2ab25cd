package contracts

import (
	"context"
	"formbridge-service/internal/app/models"
)

type SubmissionRepository interface {
	InsertSubmission(ctx context.Context, submission *models.Submission) error
	FindSubmissionByID(ctx context.Context, submissionID string) (*models.Submission, error)
	UpdateSubmission(ctx context.Context, submission *models.Submission) error
}
