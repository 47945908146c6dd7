package driven

import "context"

// WebhookSender defines the driven port for posting JSON payloads to chat webhooks.
type WebhookSender interface {
	// Send POSTs payload as JSON to webhookURL. It returns the response status
	// code; err is non-nil only when no response was received.
	Send(ctx context.Context, webhookURL string, payload any) (int, error)
}
