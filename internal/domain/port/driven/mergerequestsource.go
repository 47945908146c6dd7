package driven

import (
	"context"

	"github.com/ericfisherdev/mrcoffee/internal/domain/model"
)

// MergeRequestSource defines the driven port for listing open merge requests.
// Connection details (base URL, token) come from the SourceConfig passed on each
// call so a single source can serve any number of runs. Each call maps to
// exactly one upstream HTTP request.
type MergeRequestSource interface {
	// ListOpen returns every open merge request visible to the token.
	ListOpen(ctx context.Context, src model.SourceConfig) ([]model.MergeRequest, error)
	// ListOpenForProject returns the open merge requests of a single project.
	// projectID is a numeric ID or a namespace path such as "group/project".
	ListOpenForProject(ctx context.Context, src model.SourceConfig, projectID string) ([]model.MergeRequest, error)
}
