package submissionqueue

import (
	"context"
	"fmt"
	"formbridge-service/internal/app/config"
	"formbridge-service/internal/pkg/constvars"
	"formbridge-service/internal/pkg/exceptions"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Service owns the RabbitMQ channel carrying AI submissions. Both queues are
// durable; failed deliveries are parked on the dead-letter queue for manual
// replay instead of being redelivered forever.
type Service struct {
	ch        *amqp.Channel
	log       *zap.Logger
	queueName string
	dlqName   string
	confirms  chan amqp.Confirmation
	mu        sync.Mutex
}

// NewService opens a channel, declares the submission queue and its DLQ,
// sets QoS from the configured prefetch and enables publisher confirms.
func NewService(conn *amqp.Connection, cfg *config.InternalConfig, log *zap.Logger) (*Service, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	for _, queueName := range []string{cfg.Queue.SubmissionQueue, cfg.Queue.DeadLetterQueue} {
		_, err = ch.QueueDeclare(
			queueName, // name
			true,      // durable
			false,     // autoDelete
			false,     // exclusive
			false,     // noWait
			nil,       // args
		)
		if err != nil {
			return nil, err
		}
	}

	prefetch := cfg.Queue.PrefetchCount
	if prefetch <= 0 {
		prefetch = 1
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		return nil, err
	}

	if err := ch.Confirm(false); err != nil {
		return nil, err
	}

	return &Service{
		ch:        ch,
		log:       log,
		queueName: cfg.Queue.SubmissionQueue,
		dlqName:   cfg.Queue.DeadLetterQueue,
		confirms:  ch.NotifyPublish(make(chan amqp.Confirmation, 1)),
	}, nil
}

// Publish enqueues a raw submission body with persistence and waits for the
// broker confirm.
func (s *Service) Publish(ctx context.Context, body []byte) error {
	return s.publish(ctx, s.queueName, body)
}

// PublishToDeadLetter parks an unprocessable delivery on the DLQ.
func (s *Service) PublishToDeadLetter(ctx context.Context, body []byte) error {
	return s.publish(ctx, s.dlqName, body)
}

func (s *Service) publish(ctx context.Context, queueName string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := amqp.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		Body:         body,
		DeliveryMode: amqp.Persistent,
	}

	if err := s.ch.PublishWithContext(ctx, "", queueName, false, false, msg); err != nil {
		return exceptions.ErrRabbitMQPublishMessage(err, queueName)
	}

	select {
	case confirmed := <-s.confirms:
		if !confirmed.Ack {
			return exceptions.ErrRabbitMQPublishMessage(fmt.Errorf("message not confirmed"), queueName)
		}
	case <-ctx.Done():
		return exceptions.ErrRabbitMQPublishMessage(ctx.Err(), queueName)
	}
	return nil
}

// Consume starts delivering submissions without auto-ack; the consumer owns
// ack and nack decisions per message.
func (s *Service) Consume() (<-chan amqp.Delivery, error) {
	deliveries, err := s.ch.Consume(
		s.queueName, // queue
		"",          // consumer
		false,       // autoAck
		false,       // exclusive
		false,       // noLocal
		false,       // noWait
		nil,         // args
	)
	if err != nil {
		return nil, exceptions.ErrRabbitMQConsumeQueue(err, s.queueName)
	}

	s.log.Info("consuming submission queue",
		zap.String(constvars.LoggingQueueNameKey, s.queueName),
	)
	return deliveries, nil
}

// Close releases the channel. The owning connection is closed by the caller.
func (s *Service) Close() error {
	return s.ch.Close()
}
