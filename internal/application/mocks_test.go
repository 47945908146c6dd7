package application_test

import (
	"context"
	"sync"

	"github.com/ericfisherdev/mrcoffee/internal/domain/model"
)

// --- Mock implementations ---

type mockSource struct {
	mu          sync.Mutex
	listOpen    func(ctx context.Context, src model.SourceConfig) ([]model.MergeRequest, error)
	listProject func(ctx context.Context, src model.SourceConfig, projectID string) ([]model.MergeRequest, error)
	calls       []string // "" for the unscoped call, otherwise the project id.
}

func (m *mockSource) ListOpen(ctx context.Context, src model.SourceConfig) ([]model.MergeRequest, error) {
	m.mu.Lock()
	m.calls = append(m.calls, "")
	m.mu.Unlock()
	return m.listOpen(ctx, src)
}

func (m *mockSource) ListOpenForProject(ctx context.Context, src model.SourceConfig, projectID string) ([]model.MergeRequest, error) {
	m.mu.Lock()
	m.calls = append(m.calls, projectID)
	m.mu.Unlock()
	return m.listProject(ctx, src, projectID)
}

func (m *mockSource) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

type sendCall struct {
	URL     string
	Payload any
}

type mockSender struct {
	send  func(ctx context.Context, webhookURL string, payload any) (int, error)
	calls []sendCall
}

func (m *mockSender) Send(ctx context.Context, webhookURL string, payload any) (int, error) {
	m.calls = append(m.calls, sendCall{URL: webhookURL, Payload: payload})
	return m.send(ctx, webhookURL, payload)
}

func respondWith(status int) func(context.Context, string, any) (int, error) {
	return func(_ context.Context, _ string, _ any) (int, error) {
		return status, nil
	}
}

func boolPtr(b bool) *bool {
	return &b
}

func sampleMR(title string, wip bool) model.MergeRequest {
	return model.MergeRequest{
		Title:          title,
		Author:         "Author Name",
		CreatedAt:      "2021-05-01T00:00:00Z",
		Upvotes:        1,
		WebURL:         "https://x/" + title,
		WorkInProgress: wip,
	}
}
