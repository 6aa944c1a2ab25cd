package submissions

import (
	"context"
	"errors"
	"formbridge-service/internal/app/config"
	"formbridge-service/internal/app/contracts"
	"formbridge-service/internal/app/services/shared/submissionqueue"
	"formbridge-service/internal/pkg/constvars"
	"formbridge-service/internal/pkg/dto/requests"
	"formbridge-service/internal/pkg/exceptions"
	"formbridge-service/internal/pkg/utils"
	"time"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Consumer drains the AI submission queue. Unparseable or persistently
// invalid messages go to the DLQ; transient failures are requeued once by
// the broker via nack.
type Consumer struct {
	QueueService safeQueueService
	Usecase      SubmissionUsecase
	Redis        contracts.RedisRepository
	DedupWindow  time.Duration
	Log          *zap.Logger
}

// safeQueueService is the slice of the queue service the consumer needs.
type safeQueueService interface {
	Consume() (<-chan amqp.Delivery, error)
	PublishToDeadLetter(ctx context.Context, body []byte) error
}

func NewConsumer(
	queueService *submissionqueue.Service,
	usecase SubmissionUsecase,
	redisRepository contracts.RedisRepository,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) *Consumer {
	return &Consumer{
		QueueService: queueService,
		Usecase:      usecase,
		Redis:        redisRepository,
		DedupWindow:  time.Duration(internalConfig.App.MessageDedupWindowInHours) * time.Hour,
		Log:          logger,
	}
}

// Run blocks consuming deliveries until the context is canceled or the
// delivery channel closes.
func (c *Consumer) Run(ctx context.Context) error {
	deliveries, err := c.QueueService.Consume()
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return nil
			}
			c.handleDelivery(ctx, delivery)
		}
	}
}

func (c *Consumer) handleDelivery(ctx context.Context, delivery amqp.Delivery) {
	requestID := utils.GenerateRequestID()
	ctx = context.WithValue(ctx, constvars.CONTEXT_REQUEST_ID_KEY, requestID)

	request := new(requests.CreateSubmission)
	if err := json.Unmarshal(delivery.Body, request); err != nil {
		c.Log.Error("submissionConsumer.handleDelivery error unmarshaling message",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		c.deadLetter(ctx, delivery)
		return
	}

	if err := utils.ValidateStruct(request); err != nil {
		c.Log.Error("submissionConsumer.handleDelivery message failed envelope validation",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingMessageIDKey, request.MessageID),
			zap.Error(err),
		)
		c.deadLetter(ctx, delivery)
		return
	}

	if duplicate := c.isDuplicate(ctx, request.MessageID); duplicate {
		c.Log.Info("submissionConsumer.handleDelivery skipping duplicate message",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingMessageIDKey, request.MessageID),
		)
		c.ack(delivery)
		return
	}

	_, err := c.Usecase.ProcessSubmission(ctx, request)
	if err != nil {
		var customErr *exceptions.CustomError
		if errors.As(err, &customErr) && customErr.StatusCode == constvars.StatusUnprocessableEntity {
			// Redelivery cannot fix an invalid submission; the rejection is
			// already in the audit collection.
			c.Log.Error("submissionConsumer.handleDelivery submission rejected",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingMessageIDKey, request.MessageID),
				zap.Error(err),
			)
			c.deadLetter(ctx, delivery)
			return
		}

		c.Log.Error("submissionConsumer.handleDelivery error processing submission",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingMessageIDKey, request.MessageID),
			zap.Error(err),
		)
		if delivery.Redelivered {
			c.deadLetter(ctx, delivery)
			return
		}
		if nackErr := delivery.Nack(false, true); nackErr != nil {
			c.Log.Error("submissionConsumer.handleDelivery error nacking delivery",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(nackErr),
			)
		}
		return
	}

	c.ack(delivery)
}

// isDuplicate claims the message id in redis. Claim failures count as not
// duplicate so a redis outage degrades to at-least-once instead of dropping
// messages.
func (c *Consumer) isDuplicate(ctx context.Context, messageID string) bool {
	if messageID == "" {
		return false
	}

	acquired, err := c.Redis.SetNX(ctx, constvars.RedisKeySubmissionMessagePrefix+messageID, true, c.DedupWindow)
	if err != nil {
		c.Log.Error("submissionConsumer.isDuplicate error claiming message id",
			zap.String(constvars.LoggingMessageIDKey, messageID),
			zap.Error(err),
		)
		return false
	}
	return !acquired
}

func (c *Consumer) deadLetter(ctx context.Context, delivery amqp.Delivery) {
	if err := c.QueueService.PublishToDeadLetter(ctx, delivery.Body); err != nil {
		c.Log.Error("submissionConsumer.deadLetter error publishing to dead letter queue",
			zap.Error(err),
		)
		if nackErr := delivery.Nack(false, true); nackErr != nil {
			c.Log.Error("submissionConsumer.deadLetter error nacking delivery",
				zap.Error(nackErr),
			)
		}
		return
	}
	c.ack(delivery)
}

func (c *Consumer) ack(delivery amqp.Delivery) {
	if err := delivery.Ack(false); err != nil {
		c.Log.Error("submissionConsumer.ack error acking delivery",
			zap.Error(err),
		)
	}
}
