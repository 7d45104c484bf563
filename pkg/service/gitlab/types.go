package gitlab

import "context"

// Service provides the remote actions the orchestrator runs against a GitLab
// merge request. Every call resolves the MR URL first and issues exactly one
// API request; retry policy belongs to the caller.
type Service interface {
	// Approve approves the merge request
	Approve(ctx context.Context, mrURL, token string) error

	// Merge merges the merge request without waiting for the pipeline
	Merge(ctx context.Context, mrURL, token string) error

	// Close closes the merge request without merging
	Close(ctx context.Context, mrURL, token string) error
}
