package push

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

type fcmRequest struct {
	RegistrationIDs []string          `json:"registration_ids"`
	Notification    fcmNotification   `json:"notification"`
	Data            map[string]string `json:"data,omitempty"`
	Priority        string            `json:"priority"`
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Sound string `json:"sound"`
}

type fcmResponse struct {
	Success int           `json:"success"`
	Failure int           `json:"failure"`
	Results []TokenResult `json:"results"`
}

// FCMClient sends multicast pushes through the FCM HTTP API.
type FCMClient struct {
	httpClient *resty.Client
	serverKey  string
}

func NewFCMClient(baseURL, serverKey string) *FCMClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Content-Type", "application/json")

	return &FCMClient{
		httpClient: client,
		serverKey:  serverKey,
	}
}

// SendMulticast delivers msg to every token in one batched call and
// returns the per-token outcome. Tokens are never retried individually.
func (c *FCMClient) SendMulticast(ctx context.Context, tokens []string, msg Message) (*MulticastResult, error) {
	if len(tokens) == 0 {
		return &MulticastResult{}, nil
	}

	req := fcmRequest{
		RegistrationIDs: tokens,
		Notification: fcmNotification{
			Title: msg.Title,
			Body:  msg.Body,
			Sound: "default",
		},
		Data:     msg.Data,
		Priority: "high",
	}

	var response fcmResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Authorization", "key="+c.serverKey).
		SetBody(req).
		SetResult(&response).
		Post("/fcm/send")
	if err != nil {
		return nil, fmt.Errorf("failed to call FCM: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("FCM returned status %d", resp.StatusCode())
	}

	slog.Info("push multicast sent",
		"tokens", len(tokens),
		"success", response.Success,
		"failure", response.Failure,
	)

	return &MulticastResult{
		Success: response.Success,
		Failure: response.Failure,
		Results: response.Results,
	}, nil
}
