package constvars

type contextKey string

const (
	CONTEXT_REQUEST_ID_KEY           contextKey = "request_id"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY contextKey = "is_client_request_id"
)

const (
	LoggingRequestIDKey               = "request_id"
	LoggingMessageIDKey               = "message_id"
	LoggingSubmissionIDKey            = "submission_id"
	LoggingFormIDKey                  = "form_id"
	LoggingPatientIDKey               = "patient_id"
	LoggingQuestionnaireResponseIDKey = "questionnaire_response_id"
	LoggingSubscriptionIDKey          = "subscription_id"
	LoggingMethodKey                  = "method"
	LoggingEndpointKey                = "endpoint"
	LoggingRemoteAddrKey              = "remote_addr"
	LoggingUserAgentKey               = "user_agent"
	LoggingQueryKey                   = "query"
	LoggingStatusCodeKey              = "status_code"
	LoggingDurationKey                = "duration"
	LoggingSuccessKey                 = "success"
	LoggingQueueNameKey               = "queue_name"
	LoggingObjectNameKey              = "object_name"
)
