package constvars

const (
	ResponseUnknown = "unknown"
)

const (
	ConverterModeGeneric = "generic"
	ConverterModeSchema  = "schema"
)

const (
	SubmissionStatusAccepted  = "accepted"
	SubmissionStatusRejected  = "rejected"
	SubmissionStatusRetracted = "retracted"
)

const MongoCollectionSubmissions = "submissions"

// Redis key prefix guarding queue deliveries against duplicate processing.
const RedisKeySubmissionMessagePrefix = "formbridge:submission:message:"

// Redis key prefix for cached audit documents.
const RedisKeySubmissionAuditPrefix = "formbridge:submission:audit:"
