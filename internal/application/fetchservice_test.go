package application_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/mrcoffee/internal/adapter/driven/gitlab"
	"github.com/ericfisherdev/mrcoffee/internal/adapter/driven/transport"
	"github.com/ericfisherdev/mrcoffee/internal/application"
	"github.com/ericfisherdev/mrcoffee/internal/domain/model"
)

func TestFetchOpen_UnscopedSingleCall(t *testing.T) {
	mr := model.MergeRequest{
		Title:     "Whatever",
		Author:    "Author Name",
		CreatedAt: "2021-05-01T00:00:00Z",
		Upvotes:   1,
		WebURL:    "https://x/1",
	}
	source := &mockSource{
		listOpen: func(_ context.Context, _ model.SourceConfig) ([]model.MergeRequest, error) {
			return []model.MergeRequest{mr}, nil
		},
	}

	svc := application.NewFetchService(source)
	result, err := svc.FetchOpen(context.Background(), model.SourceConfig{BaseURL: "https://x", Token: "t"})

	require.NoError(t, err)
	assert.Equal(t, []model.MergeRequest{mr}, result)
	assert.Equal(t, []string{""}, source.calls, "exactly one unscoped request")
}

func TestFetchOpen_WIPPolicy(t *testing.T) {
	wip := sampleMR("WIP: Whatever", true)
	active := sampleMR("Active", false)

	tests := []struct {
		name       string
		includeWIP *bool
		want       []model.MergeRequest
	}{
		{name: "unset excludes wip", includeWIP: nil, want: []model.MergeRequest{active}},
		{name: "false excludes wip", includeWIP: boolPtr(false), want: []model.MergeRequest{active}},
		{name: "true keeps source order", includeWIP: boolPtr(true), want: []model.MergeRequest{wip, active}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			source := &mockSource{
				listOpen: func(_ context.Context, _ model.SourceConfig) ([]model.MergeRequest, error) {
					return []model.MergeRequest{wip, active}, nil
				},
			}

			svc := application.NewFetchService(source)
			result, err := svc.FetchOpen(context.Background(), model.SourceConfig{IncludeWIP: tc.includeWIP})

			require.NoError(t, err)
			assert.Equal(t, tc.want, result)
		})
	}
}

func TestFetchOpen_UnscopedErrorIsFatal(t *testing.T) {
	cause := &model.StatusError{StatusCode: 500}
	source := &mockSource{
		listOpen: func(_ context.Context, _ model.SourceConfig) ([]model.MergeRequest, error) {
			return nil, cause
		},
	}

	svc := application.NewFetchService(source)
	result, err := svc.FetchOpen(context.Background(), model.SourceConfig{})

	require.Error(t, err)
	assert.Nil(t, result)

	var fetchErr *model.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Empty(t, fetchErr.Project)
	assert.True(t, errors.Is(err, model.ErrUnexpectedStatus))
}

func TestFetchOpen_ProjectsConcatenatedInOrder(t *testing.T) {
	source := &mockSource{
		listProject: func(_ context.Context, _ model.SourceConfig, projectID string) ([]model.MergeRequest, error) {
			return []model.MergeRequest{sampleMR(projectID+"-a", false), sampleMR(projectID+"-b", false)}, nil
		},
	}

	svc := application.NewFetchService(source)
	result, err := svc.FetchOpen(context.Background(), model.SourceConfig{Projects: []string{"one", "two"}})

	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, source.calls)

	titles := make([]string, 0, len(result))
	for _, mr := range result {
		titles = append(titles, mr.Title)
	}
	assert.Equal(t, []string{"one-a", "one-b", "two-a", "two-b"}, titles)
}

func TestFetchOpen_FailedProjectSkipped(t *testing.T) {
	source := &mockSource{
		listProject: func(_ context.Context, _ model.SourceConfig, projectID string) ([]model.MergeRequest, error) {
			if projectID == "broken" {
				return nil, errors.New("connection refused")
			}
			return []model.MergeRequest{sampleMR(projectID, false)}, nil
		},
	}

	svc := application.NewFetchService(source)
	result, err := svc.FetchOpen(context.Background(), model.SourceConfig{Projects: []string{"one", "broken", "three"}})

	require.NoError(t, err, "per-project failures must not abort the fetch")
	assert.Equal(t, 3, source.callCount(), "every project is requested regardless of failures")
	require.Len(t, result, 2)
	assert.Equal(t, "one", result[0].Title)
	assert.Equal(t, "three", result[1].Title)
}

func TestFetchOpen_AllProjectsFail(t *testing.T) {
	source := &mockSource{
		listProject: func(_ context.Context, _ model.SourceConfig, _ string) ([]model.MergeRequest, error) {
			return nil, errors.New("boom")
		},
	}

	svc := application.NewFetchService(source)
	result, err := svc.FetchOpen(context.Background(), model.SourceConfig{Projects: []string{"a", "b"}})

	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Empty(t, result)
}

func TestFetchOpen_ProjectsFilterWIP(t *testing.T) {
	source := &mockSource{
		listProject: func(_ context.Context, _ model.SourceConfig, _ string) ([]model.MergeRequest, error) {
			return []model.MergeRequest{sampleMR("draft", true), sampleMR("ready", false)}, nil
		},
	}

	svc := application.NewFetchService(source)
	result, err := svc.FetchOpen(context.Background(), model.SourceConfig{Projects: []string{"p"}})

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "ready", result[0].Title)
}

// TestFilterWIP_ToggleOnlyAffectsWIP verifies that flipping the include flag
// changes the presence of WIP items and never of non-WIP items.
func TestFilterWIP_ToggleOnlyAffectsWIP(t *testing.T) {
	mrs := []model.MergeRequest{
		sampleMR("a", false),
		sampleMR("b", true),
		sampleMR("c", false),
		sampleMR("d", true),
	}

	excluded := application.FilterWIP(mrs, false)
	included := application.FilterWIP(mrs, true)

	assert.Equal(t, mrs, included)
	assert.Equal(t, []model.MergeRequest{mrs[0], mrs[2]}, excluded)

	for _, mr := range excluded {
		assert.False(t, mr.WorkInProgress)
	}
	assert.Len(t, mrs, 4, "input must not be modified")
}

// TestFetchOpen_CachingTransportCallsEveryProject runs the production
// transport stack against a server that marks its answers as cacheable.
func TestFetchOpen_CachingTransportCallsEveryProject(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Cache-Control", "max-age=60")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"title":"Cached","author":{"name":"Ann"},"created_at":"2021-05-01T00:00:00Z","upvotes":1,"web_url":"https://x/1","work_in_progress":false}]`))
	}))
	t.Cleanup(server.Close)

	httpClient := transport.NewCachingClient(slog.New(slog.DiscardHandler))
	svc := application.NewFetchService(gitlab.NewClient(httpClient))
	src := model.SourceConfig{BaseURL: server.URL, Token: "t", Projects: []string{"a", "a"}}

	for run := 1; run <= 2; run++ {
		result, err := svc.FetchOpen(context.Background(), src)
		require.NoError(t, err)
		assert.Len(t, result, 2)
		assert.Equal(t, int32(2*run), hits.Load(), "one upstream call per configured project on run %d", run)
	}
}
