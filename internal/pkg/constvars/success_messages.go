package constvars

const (
	CreateSubmissionSuccessMessage  = "Successfully converted and stored the questionnaire submission"
	PreviewSubmissionSuccessMessage = "Successfully converted the questionnaire submission"
	EnqueueSubmissionSuccessMessage = "Successfully enqueued the questionnaire submission for processing"
	AmendSubmissionSuccessMessage   = "Successfully amended the questionnaire submission"
	RetractSubmissionSuccessMessage = "Successfully retracted the questionnaire submission"
	FindSubmissionSuccessMessage    = "Successfully retrieved the submission"
	HealthCheckSuccessMessage       = "Service is healthy"
)
