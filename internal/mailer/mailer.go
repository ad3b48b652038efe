// Package mailer delivers transactional email through the Brevo HTTP API.
package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Email is one outbound transactional message with both variants.
type Email struct {
	To      string `json:"to"`
	ToName  string `json:"toName"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Text    string `json:"text"`
}

// Sender delivers one email. Implementations must be safe for
// concurrent use; delivery is best-effort and never retried beyond the
// transport's own bounded retries.
type Sender interface {
	Send(ctx context.Context, email Email) error
}

type brevoAddress struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type brevoSendRequest struct {
	Sender      brevoAddress   `json:"sender"`
	To          []brevoAddress `json:"to"`
	Subject     string         `json:"subject"`
	HTMLContent string         `json:"htmlContent"`
	TextContent string         `json:"textContent"`
}

type brevoSendResponse struct {
	MessageID string `json:"messageId"`
}

// BrevoClient posts messages to the Brevo transactional email API.
type BrevoClient struct {
	httpClient *resty.Client
	fromEmail  string
	fromName   string
}

func NewBrevoClient(baseURL, apiKey, fromEmail, fromName string) *BrevoClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(4 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("api-key", apiKey)

	return &BrevoClient{
		httpClient: client,
		fromEmail:  fromEmail,
		fromName:   fromName,
	}
}

func (c *BrevoClient) Send(ctx context.Context, email Email) error {
	req := brevoSendRequest{
		Sender:      brevoAddress{Name: c.fromName, Email: c.fromEmail},
		To:          []brevoAddress{{Name: email.ToName, Email: email.To}},
		Subject:     email.Subject,
		HTMLContent: email.HTML,
		TextContent: email.Text,
	}

	var response brevoSendResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&response).
		Post("/v3/smtp/email")
	if err != nil {
		return fmt.Errorf("failed to call email API: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("email API returned status %d", resp.StatusCode())
	}
	return nil
}
