package config

import (
	"formbridge-service/internal/pkg/utils"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		MongoDB: MongoDB{
			Port:     utils.GetEnvString("MONGODB_PORT", "27017"),
			Host:     utils.GetEnvString("MONGODB_HOST", "localhost"),
			DbName:   utils.GetEnvString("MONGODB_DB_NAME", "formbridge"),
			Username: utils.GetEnvString("MONGODB_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("MONGODB_PASSWORD", "defaultPassword"),
		},
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
		},
		RabbitMQ: RabbitMQ{
			Port:     utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:     utils.GetEnvString("RABBITMQ_HOST", "localhost"),
			Username: utils.GetEnvString("RABBITMQ_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("RABBITMQ_PASSWORD", "defaultPassword"),
		},
		Minio: Minio{
			Port:       utils.GetEnvString("MINIO_PORT", "9000"),
			Host:       utils.GetEnvString("MINIO_HOST", "localhost"),
			Username:   utils.GetEnvString("MINIO_USERNAME", "defaultUsername"),
			Password:   utils.GetEnvString("MINIO_PASSWORD", "defaultPassword"),
			BucketName: utils.GetEnvString("MINIO_BUCKET_NAME", "formbridge-submissions"),
			UseSSL:     utils.GetEnvBool("MINIO_USE_SSL", false),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                       utils.GetEnvString("APP_ENV", "development"),
			Port:                      utils.GetEnvString("APP_PORT", ":8080"),
			Version:                   utils.GetEnvString("APP_VERSION", "v1"),
			EndpointPrefix:            utils.GetEnvString("APP_ENDPOINT_PREFIX", "formbridge"),
			MaxRequests:               utils.GetEnvInt("APP_MAX_REQUEST", 50),
			ShutdownTimeout:           utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT", 10),
			RequestTimeoutInSeconds:   utils.GetEnvInt("APP_REQUEST_TIMEOUT_IN_SECONDS", 10),
			StrictValidation:          utils.GetEnvBool("APP_STRICT_VALIDATION", true),
			ConverterMode:             utils.GetEnvString("APP_CONVERTER_MODE", "generic"),
			APIKeyHash:                utils.GetEnvString("APP_API_KEY_HASH", ""),
			ArchiveRawPayloads:        utils.GetEnvBool("APP_ARCHIVE_RAW_PAYLOADS", true),
			MessageDedupWindowInHours: utils.GetEnvInt("APP_MESSAGE_DEDUP_WINDOW_IN_HOURS", 24),
		},
		FHIR: FHIR{
			BaseUrl:              utils.GetEnvString("FHIR_BASE_URL", "http://localhost:5555/fhir"),
			RequestsPerSecond:    utils.GetEnvFloat("FHIR_REQUESTS_PER_SECOND", 20),
			SubscriptionEndpoint: utils.GetEnvString("FHIR_SUBSCRIPTION_ENDPOINT", ""),
		},
		JWT: JWT{
			Secret:       utils.GetEnvString("JWT_SECRET", "anyjwt"),
			Issuer:       utils.GetEnvString("JWT_ISSUER", "formbridge-service"),
			Audience:     utils.GetEnvString("JWT_AUDIENCE", "fhir-store"),
			ExpTimeInMin: utils.GetEnvInt("JWT_EXP_TIME_IN_MINUTE", 5),
		},
		Queue: Queue{
			SubmissionQueue: utils.GetEnvString("QUEUE_SUBMISSION_NAME", "ai_submission_queue"),
			DeadLetterQueue: utils.GetEnvString("QUEUE_SUBMISSION_DLQ_NAME", "ai_submission_dlq"),
			PrefetchCount:   utils.GetEnvInt("QUEUE_PREFETCH_COUNT", 5),
			ConsumerEnabled: utils.GetEnvBool("QUEUE_CONSUMER_ENABLED", true),
		},
	}
}
