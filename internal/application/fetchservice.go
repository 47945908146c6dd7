// Package application contains use-case orchestration services.
package application

import (
	"context"

	"github.com/ericfisherdev/mrcoffee/internal/domain/model"
	"github.com/ericfisherdev/mrcoffee/internal/domain/port/driven"
)

// FetchService retrieves open merge requests and applies the WIP policy.
type FetchService struct {
	source driven.MergeRequestSource
}

// NewFetchService creates a FetchService backed by source.
func NewFetchService(source driven.MergeRequestSource) *FetchService {
	return &FetchService{source: source}
}

// FetchOpen returns the open merge requests described by src.
//
// Without projects a single unscoped request is made and any failure is
// returned as a *model.FetchError. With projects one request is made per
// project in configured order; a project that fails is logged and skipped so
// one bad project does not hide the others. Work-in-progress items are dropped
// unless src.IncludeWIP is explicitly true.
func (s *FetchService) FetchOpen(ctx context.Context, src model.SourceConfig) ([]model.MergeRequest, error) {
	if len(src.Projects) == 0 {
		mrs, err := s.source.ListOpen(ctx, src)
		if err != nil {
			return nil, &model.FetchError{Err: err}
		}
		return FilterWIP(mrs, src.IncludesWIP()), nil
	}

	logger := LoggerFrom(ctx)
	all := []model.MergeRequest{}
	var skipped int
	for _, project := range src.Projects {
		mrs, err := s.source.ListOpenForProject(ctx, src, project)
		if err != nil {
			skipped++
			logger.Warn("project fetch failed, skipping", "project", project, "error", err)
			continue
		}
		all = append(all, mrs...)
	}

	logger.Debug("projects fetched",
		"projects", len(src.Projects),
		"skipped", skipped,
		"merge_requests", len(all),
	)

	return FilterWIP(all, src.IncludesWIP()), nil
}

// FilterWIP returns mrs without work-in-progress items unless includeWIP is
// set. Order is preserved and the input slice is not modified.
func FilterWIP(mrs []model.MergeRequest, includeWIP bool) []model.MergeRequest {
	kept := make([]model.MergeRequest, 0, len(mrs))
	for _, mr := range mrs {
		if mr.WorkInProgress && !includeWIP {
			continue
		}
		kept = append(kept, mr)
	}
	return kept
}
