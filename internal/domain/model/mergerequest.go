package model

// MergeRequest is an open review request as reported by the GitLab API.
// CreatedAt is kept verbatim so notifications show exactly what the upstream sent.
type MergeRequest struct {
	Title          string
	Author         string
	CreatedAt      string
	Upvotes        int
	WebURL         string
	WorkInProgress bool
}

// RunSummary reports the outcome of a single relay run.
type RunSummary struct {
	Found     int // Merge requests left after the WIP filter.
	Delivered int // Channels that answered with a 2xx status.
}
