package constvars

// Client-facing messages. These are the only strings that leave the service.
const (
	ErrClientCannotProcessRequest          = "We cannot process your request, please check your submission"
	ErrClientSomethingWrongWithApplication = "Something went wrong with the application, please contact our admin"
	ErrClientNotAuthorized                 = "You are not authorized to perform this action"
	ErrClientSubmissionInvalid             = "The submission failed validation, please review the reported problems"
	ErrClientSubmissionNotFound            = "We cannot find the submission you are looking for"
	ErrClientSubmissionNotAmendable        = "The submission has no stored questionnaire response, so it cannot be amended"
	ErrClientServerLongRespond             = "Server takes too long to respond, please try again later"
)

// Developer-facing messages, logged but never returned to clients.
const (
	ErrDevCannotParseJSON        = "Failed to parse JSON request body"
	ErrDevCannotMarshalJSON      = "Failed to marshal value into JSON"
	ErrDevValidationFailed       = "Request validation failed"
	ErrDevSubmissionRejected     = "Submission rejected by structural validation"
	ErrDevSubmissionNotExists    = "Submission document does not exist"
	ErrDevSubmissionNotAmendable = "Submission carries no questionnaire response id"

	ErrDevCreateHTTPRequest = "Failed to create HTTP request"
	ErrDevSendHTTPRequest   = "Failed to send HTTP request"

	ErrDevFhirCreateResource   = "Failed to create FHIR resource: %s"
	ErrDevFhirUpdateResource   = "Failed to update FHIR resource: %s"
	ErrDevFhirGetResource      = "Failed to get FHIR resource: %s"
	ErrDevFhirDeleteResource   = "Failed to delete FHIR resource: %s"
	ErrDevFhirDecodeResource   = "Failed to decode FHIR resource: %s"
	ErrDevFhirSearchResource   = "Failed to search FHIR resource: %s"
	ErrDevFhirThrottleExceeded = "FHIR client rate limiter rejected the request"

	ErrDevTokenGenerate = "Failed to generate service token"

	ErrDevMongoDBFindDocument   = "Failed to find document on mongo database"
	ErrDevMongoDBInsertDocument = "Failed to insert document to mongo database"
	ErrDevMongoDBUpdateDocument = "Failed to update document on mongo database"

	ErrDevRedisSetData   = "Failed to set data to redis"
	ErrDevRedisGetData   = "Failed to get data from redis"
	ErrDevRedisDelete    = "Failed to delete data from redis"
	ErrDevRedisSetNXData = "Failed to set-if-absent data to redis"

	ErrDevMinioCreateObject = "Failed to create object in bucket: %s"

	ErrDevRabbitMQPublishMessage = "Failed to publish message to queue: %s"
	ErrDevRabbitMQConsumeQueue   = "Failed to start consuming queue: %s"

	ErrDevInvalidAPIKey = "Invalid or missing API key"
)

// Custom messages used by the request validator helpers.
var CustomValidationErrorMessages = map[string]string{
	"required": "is required",
	"iso8601":  "must be an ISO 8601 timestamp",
	"oneof":    "must be one of: %s",
	"min":      "must be at least %s",
	"max":      "must be at most %s",
}

var TagsWithParams = map[string]bool{
	"oneof": true,
	"min":   true,
	"max":   true,
}
