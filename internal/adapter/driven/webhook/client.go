// Package webhook implements the WebhookSender port for Slack and Teams incoming webhooks.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ericfisherdev/mrcoffee/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.WebhookSender = (*Client)(nil)

// Client posts JSON payloads to webhook URLs.
type Client struct {
	http *http.Client
}

// NewClient creates a Client using httpClient for every request. A nil
// httpClient falls back to http.DefaultClient.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{http: httpClient}
}

// Send marshals payload and POSTs it with a JSON content type. Any response,
// whatever its status, is returned without error so the caller decides how a
// rejection is counted.
func (c *Client) Send(ctx context.Context, webhookURL string, payload any) (int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("encoding payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("posting webhook: %w", err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()

	return resp.StatusCode, nil
}
