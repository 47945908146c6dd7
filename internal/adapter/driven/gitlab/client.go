// Package gitlab implements the MergeRequestSource port against the GitLab REST API.
package gitlab

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/ericfisherdev/mrcoffee/internal/domain/model"
	"github.com/ericfisherdev/mrcoffee/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.MergeRequestSource = (*Client)(nil)

// tokenHeader carries the personal access token on every request.
const tokenHeader = "PRIVATE-TOKEN"

// Client implements driven.MergeRequestSource over plain HTTP.
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

// ListOpen issues GET {base}/merge_requests?state=opened.
func (c *Client) ListOpen(ctx context.Context, src model.SourceConfig) ([]model.MergeRequest, error) {
	endpoint := strings.TrimRight(src.BaseURL, "/") + "/merge_requests?state=opened"
	return c.list(ctx, endpoint, src.Token)
}

// ListOpenForProject issues GET {base}/projects/{id}/merge_requests?state=opened.
// Namespace paths are escaped so "group/project" becomes "group%2Fproject";
// already-escaped IDs are accepted unchanged.
func (c *Client) ListOpenForProject(ctx context.Context, src model.SourceConfig, projectID string) ([]model.MergeRequest, error) {
	if projectID == "" {
		return nil, fmt.Errorf("empty project id")
	}
	endpoint := fmt.Sprintf("%s/projects/%s/merge_requests?state=opened",
		strings.TrimRight(src.BaseURL, "/"), escapeProjectID(projectID))
	return c.list(ctx, endpoint, src.Token)
}

func (c *Client) list(ctx context.Context, endpoint, token string) ([]model.MergeRequest, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set(tokenHeader, token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting merge requests: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &model.StatusError{StatusCode: resp.StatusCode}
	}

	var payload []mergeRequestJSON
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding merge requests: %w", err)
	}

	mrs := make([]model.MergeRequest, 0, len(payload))
	for _, mr := range payload {
		mrs = append(mrs, mr.toModel())
	}

	slog.Debug("gitlab merge requests listed", "count", len(mrs))

	return mrs, nil
}

// mergeRequestJSON mirrors the subset of the GitLab merge request resource
// that notifications need. Unknown fields are ignored by encoding/json.
type mergeRequestJSON struct {
	Title  string `json:"title"`
	Author struct {
		Name string `json:"name"`
	} `json:"author"`
	CreatedAt      string `json:"created_at"`
	Upvotes        int    `json:"upvotes"`
	WebURL         string `json:"web_url"`
	WorkInProgress bool   `json:"work_in_progress"`
}

func (mr mergeRequestJSON) toModel() model.MergeRequest {
	return model.MergeRequest{
		Title:          mr.Title,
		Author:         mr.Author.Name,
		CreatedAt:      mr.CreatedAt,
		Upvotes:        mr.Upvotes,
		WebURL:         mr.WebURL,
		WorkInProgress: mr.WorkInProgress,
	}
}

func escapeProjectID(id string) string {
	if unescaped, err := url.PathUnescape(id); err == nil {
		id = unescaped
	}
	return url.PathEscape(id)
}
