// Package queue_publisher publishes domain events to RabbitMQ.
// Errors are logged and returned so callers can ignore failures
// without interrupting the main request flow.
package queue_publisher

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	q "github.com/iliyamo/exam-registration/internal/queue"
)

// PublishRegistrationReviewed publishes a RegistrationReviewedEvent to
// the registration.reviewed queue.  Messages are marked persistent.
func PublishRegistrationReviewed(ctx context.Context, event q.RegistrationReviewedEvent) error {
	return publish(ctx, q.RegistrationReviewedQueue, event)
}

// PublishNotificationCreated publishes a NotificationCreatedEvent to
// the notification.created queue.
func PublishNotificationCreated(ctx context.Context, event q.NotificationCreatedEvent) error {
	return publish(ctx, q.NotificationCreatedQueue, event)
}

// publish opens a short-lived connection, declares the target queue
// (idempotent, durable) and sends one persistent JSON message.  Any
// failure is logged and returned; publishing never panics and never
// fails the request that triggered it.
func publish(ctx context.Context, queueName string, event interface{}) error {
	conn, err := amqp.Dial(q.BrokerURL())
	if err != nil {
		log.Warn().Err(err).Str("queue", queueName).Msg("rabbitmq: dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Warn().Err(err).Str("queue", queueName).Msg("rabbitmq: channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		log.Warn().Err(err).Str("queue", queueName).Msg("rabbitmq: queue declare failed")
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Warn().Err(err).Str("queue", queueName).Msg("rabbitmq: marshal event failed")
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",        // default exchange
		queueName, // routing key = queue name
		false,     // mandatory
		false,     // immediate
		pub,
	); err != nil {
		log.Warn().Err(err).Str("queue", queueName).Msg("rabbitmq: publish failed")
		return err
	}
	return nil
}
