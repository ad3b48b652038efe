package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/hera-security/hera-backend/internal/mailer"
)

// StartEmailConsumer connects to the broker, declares the durable
// email.send queue and delivers jobs through the given sender. It runs
// a reconnect loop with backoff and never returns under normal
// operation; failed jobs are rejected without requeue to avoid tight
// redelivery loops.
func StartEmailConsumer(url string, sender mailer.Sender, done chan struct{}) {
	if url == "" {
		return
	}

	go func() {
		backoff := time.Second
		for {
			select {
			case <-done:
				return
			default:
			}

			conn, err := amqp.Dial(url)
			if err != nil {
				slog.Warn("email consumer: broker dial failed", "error", err, "retry_in", backoff.String())
				time.Sleep(backoff)
				if backoff < 30*time.Second {
					backoff *= 2
				}
				continue
			}
			backoff = time.Second

			if err := consumeLoop(conn, sender, done); err != nil {
				slog.Warn("email consumer: consume loop ended", "error", err)
				_ = conn.Close()
				time.Sleep(2 * time.Second)
			}
		}
	}()
}

func consumeLoop(conn *amqp.Connection, sender mailer.Sender, done chan struct{}) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(10, 0, false); err != nil {
		slog.Warn("email consumer: set QoS failed", "error", err)
	}

	if _, err := ch.QueueDeclare(emailQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(emailQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-done:
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := handleJob(d.Body, sender); err != nil {
				slog.Error("email consumer: job failed", "error", err)
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func handleJob(body []byte, sender mailer.Sender) error {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	return sender.Send(ctx, job.Email)
}
