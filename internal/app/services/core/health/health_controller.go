package health

import (
	"context"
	"formbridge-service/internal/pkg/constvars"
	"formbridge-service/internal/pkg/dto/responses"
	"formbridge-service/internal/pkg/utils"
	"net/http"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const dependencyTimeout = 2 * time.Second

const (
	statusUp       = "up"
	statusDown     = "down"
	statusOK       = "ok"
	statusDegraded = "degraded"
)

type HealthController struct {
	Log     *zap.Logger
	MongoDB *mongo.Client
	Redis   *goredis.Client
}

func NewHealthController(logger *zap.Logger, mongoClient *mongo.Client, redisClient *goredis.Client) *HealthController {
	return &HealthController{
		Log:     logger,
		MongoDB: mongoClient,
		Redis:   redisClient,
	}
}

// Check pings the datastores. The endpoint always answers 200; a degraded
// status tells the orchestrator which dependency is down.
func (ctrl *HealthController) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), dependencyTimeout)
	defer cancel()

	dependencies := map[string]string{
		"mongodb": statusUp,
		"redis":   statusUp,
	}
	status := statusOK

	if err := ctrl.MongoDB.Ping(ctx, readpref.Primary()); err != nil {
		ctrl.Log.Error("healthController.Check mongodb ping failed", zap.Error(err))
		dependencies["mongodb"] = statusDown
		status = statusDegraded
	}
	if err := ctrl.Redis.Ping(ctx).Err(); err != nil {
		ctrl.Log.Error("healthController.Check redis ping failed", zap.Error(err))
		dependencies["redis"] = statusDown
		status = statusDegraded
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.HealthCheckSuccessMessage, responses.Health{
		Status:       status,
		Dependencies: dependencies,
	})
}
