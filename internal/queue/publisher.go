package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// PublishEmail publishes a rendered email to the durable email.send
// queue. Errors are returned so the caller can fall back to direct
// delivery without interrupting the main request flow.
func PublishEmail(ctx context.Context, url string, job EmailJob) error {
	if url == "" {
		return fmt.Errorf("no broker configured")
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return fmt.Errorf("broker dial failed: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open failed: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// Durable so jobs survive broker restarts.
	if _, err := ch.QueueDeclare(emailQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare failed: %w", err)
	}

	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job failed: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", emailQueueName, false, false, pub); err != nil {
		return fmt.Errorf("publish failed: %w", err)
	}
	return nil
}
