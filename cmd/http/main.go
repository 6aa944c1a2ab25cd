package main

import (
	"context"
	"formbridge-service/internal/app/config"
	"formbridge-service/internal/app/delivery/http/middlewares"
	"formbridge-service/internal/app/delivery/http/routers"
	"formbridge-service/internal/app/drivers/database"
	"formbridge-service/internal/app/drivers/logger"
	"formbridge-service/internal/app/drivers/messaging"
	"formbridge-service/internal/app/drivers/storage"
	"formbridge-service/internal/app/services/core/health"
	"formbridge-service/internal/app/services/core/submissions"
	"formbridge-service/internal/app/services/fhir_spark/questionnaire_responses"
	"formbridge-service/internal/app/services/fhir_spark/subscriptions"
	sharedredis "formbridge-service/internal/app/services/shared/redis"
	sharedstorage "formbridge-service/internal/app/services/shared/storage"
	"formbridge-service/internal/app/services/shared/submissionqueue"
	"formbridge-service/internal/app/services/shared/tokenmanager"
	"formbridge-service/internal/pkg/constvars"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	log := logger.NewZapLogger(driverConfig, internalConfig)
	defer log.Sync()

	mongoDB := database.NewMongoDB(driverConfig)
	redisClient := database.NewRedisClient(driverConfig)
	rabbitMQ := messaging.NewRabbitMQ(driverConfig)
	chiRouter := chi.NewRouter()

	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	defer stopConsumer()

	bootstrapTheApp(consumerCtx, config.Bootstrap{
		Router:         chiRouter,
		MongoDB:        mongoDB,
		Redis:          redisClient,
		RabbitMQ:       rabbitMQ,
		Logger:         log,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	})

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: chiRouter,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", zap.Error(err))
		}
	}()
	log.Info("Server started", zap.String("address", internalConfig.App.Port))

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	logrus.Println("Waiting for pending requests that already received by server to be processed..")
	stopConsumer()

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeout),
	)
	defer cancel()

	err := server.Shutdown(shutdownCtx)
	if err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	if err := mongoDB.Disconnect(shutdownCtx); err != nil {
		log.Error("Error disconnecting mongo client", zap.Error(err))
	}
	if err := rabbitMQ.Close(); err != nil {
		log.Error("Error closing rabbitMQ connection", zap.Error(err))
	}

	log.Info("Server exiting")
}

func bootstrapTheApp(consumerCtx context.Context, bootstrap config.Bootstrap) {
	// Shared services
	redisRepository := sharedredis.NewRedisRepository(bootstrap.Redis)
	minioClient := storage.NewMinio(bootstrap.DriverConfig)
	storageService := sharedstorage.NewMinioStorage(minioClient, bootstrap.DriverConfig.Minio.BucketName, bootstrap.Logger)
	tokenManager := tokenmanager.NewTokenManager(bootstrap.InternalConfig)

	// Middlewares
	middlewares := middlewares.NewMiddlewares(bootstrap.Logger, bootstrap.InternalConfig)

	// FHIR clients
	questionnaireResponseFhirClient := questionnaire_responses.NewQuestionnaireResponseFhirClient(
		bootstrap.InternalConfig.FHIR.BaseUrl,
		bootstrap.InternalConfig.FHIR.RequestsPerSecond,
		tokenManager,
		bootstrap.Logger,
	)
	subscriptionFhirClient := subscriptions.NewSubscriptionFhirClient(
		bootstrap.InternalConfig.FHIR.BaseUrl,
		bootstrap.InternalConfig.FHIR.RequestsPerSecond,
		tokenManager,
		bootstrap.Logger,
	)

	// Queue
	queueService, err := submissionqueue.NewService(bootstrap.RabbitMQ, bootstrap.InternalConfig, bootstrap.Logger)
	if err != nil {
		bootstrap.Logger.Fatal("Failed to initialize submission queue", zap.Error(err))
	}

	// Submission
	submissionMongoRepository := submissions.NewSubmissionMongoRepository(
		bootstrap.MongoDB,
		bootstrap.DriverConfig.MongoDB.DbName,
	)
	submissionUsecase := submissions.NewSubmissionUsecase(
		questionnaireResponseFhirClient,
		submissionMongoRepository,
		storageService,
		redisRepository,
		bootstrap.InternalConfig,
		bootstrap.Logger,
	)
	submissionController := submissions.NewSubmissionController(bootstrap.Logger, submissionUsecase, queueService, bootstrap.InternalConfig)

	// Health
	healthController := health.NewHealthController(bootstrap.Logger, bootstrap.MongoDB, bootstrap.Redis)

	routers.SetupRoutes(bootstrap.Router, bootstrap.InternalConfig, middlewares, submissionController, healthController)

	// Queue consumer
	if bootstrap.InternalConfig.Queue.ConsumerEnabled {
		consumer := submissions.NewConsumer(queueService, submissionUsecase, redisRepository, bootstrap.InternalConfig, bootstrap.Logger)
		go func() {
			if err := consumer.Run(consumerCtx); err != nil && err != context.Canceled {
				bootstrap.Logger.Error("Submission consumer stopped", zap.Error(err))
			}
		}()
	}

	// Downstream notification subscription
	if endpoint := bootstrap.InternalConfig.FHIR.SubscriptionEndpoint; endpoint != "" {
		startupCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		criteria := constvars.ResourceQuestionnaireResponse + "?status=" + constvars.FhirQuestionnaireResponseStatusCompleted
		subscription, err := subscriptionFhirClient.EnsureSubscription(startupCtx, criteria, endpoint)
		if err != nil {
			bootstrap.Logger.Error("Failed to ensure questionnaire response subscription", zap.Error(err))
		} else {
			bootstrap.Logger.Info("Questionnaire response subscription ready",
				zap.String(constvars.LoggingSubscriptionIDKey, subscription.ID),
			)
		}
	}
}
