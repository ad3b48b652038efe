package queue

import (
	"context"
	"log/slog"
	"time"

	"github.com/hera-security/hera-backend/internal/mailer"
)

// Dispatcher decouples email delivery from the request path: jobs go to
// the broker when one is configured, otherwise straight to the sender
// on a background goroutine. Either way the caller never waits on the
// mail provider and never sees its failures.
type Dispatcher struct {
	amqpURL string
	sender  mailer.Sender
}

func NewDispatcher(amqpURL string, sender mailer.Sender) *Dispatcher {
	return &Dispatcher{amqpURL: amqpURL, sender: sender}
}

// Dispatch hands the email off and returns immediately.
func (d *Dispatcher) Dispatch(email mailer.Email) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()

		if d.amqpURL != "" {
			if err := PublishEmail(ctx, d.amqpURL, EmailJob{Email: email}); err == nil {
				return
			} else {
				slog.Warn("email publish failed, sending directly", "error", err)
			}
		}

		if err := d.sender.Send(ctx, email); err != nil {
			slog.Error("email delivery failed", "error", err, "to", email.To)
		}
	}()
}
