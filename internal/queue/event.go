// Package queue defines the asynchronous email boundary: jobs published
// to the message broker and the background consumer that delivers them.
package queue

import "github.com/hera-security/hera-backend/internal/mailer"

const emailQueueName = "email.send"

// EmailJob is one fully rendered email awaiting delivery. Rendering
// happens at publish time so consumers stay template-free.
type EmailJob struct {
	Email mailer.Email `json:"email"`
}
