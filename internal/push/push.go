// Package push wraps the multicast push-notification transport.
package push

import "context"

// Message is one push payload shared by every recipient token. Data is
// delivered alongside the visible notification for client-side routing.
type Message struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data"`
}

// TokenResult is the transport outcome for a single registration token.
type TokenResult struct {
	MessageID string `json:"message_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// MulticastResult aggregates per-token outcomes of one batched send.
type MulticastResult struct {
	Success int           `json:"success"`
	Failure int           `json:"failure"`
	Results []TokenResult `json:"results"`
}

// InvalidTokens returns the subset of tokens the transport reported as
// permanently unregistered. Transient errors are not included.
func (r *MulticastResult) InvalidTokens(tokens []string) []string {
	var invalid []string
	for i, res := range r.Results {
		if i >= len(tokens) {
			break
		}
		switch res.Error {
		case "NotRegistered", "InvalidRegistration", "MismatchSenderId":
			invalid = append(invalid, tokens[i])
		}
	}
	return invalid
}

// Sender dispatches one message to a set of device tokens in a single
// batched call.
type Sender interface {
	SendMulticast(ctx context.Context, tokens []string, msg Message) (*MulticastResult, error)
}
