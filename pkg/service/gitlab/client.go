package gitlab

import (
	"context"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

// DefaultBaseURL is the GitLab API endpoint used unless overridden
const DefaultBaseURL = "https://gitlab.com/api/v4"

// defaultTimeout bounds every outbound API call. A timeout is a failure,
// never a hang, and is not retried here.
const defaultTimeout = 30 * time.Second

// client implements Service interface
type client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// Option is a functional option for client configuration
type Option func(*client)

// WithBaseURL sets the GitLab API base URL (for self-hosted instances)
func WithBaseURL(baseURL string) Option {
	return func(c *client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets the underlying HTTP client (used by tests)
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-call timeout
func WithTimeout(d time.Duration) Option {
	return func(c *client) {
		c.timeout = d
	}
}

// New creates a new GitLab service. The access token is supplied per call
// because each review record carries its own credential.
func New(opts ...Option) Service {
	c := &client{
		baseURL: DefaultBaseURL,
		timeout: defaultTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// api builds a client-go client bound to the caller-supplied token.
// Retries are disabled: each operation issues exactly one HTTP call.
func (c *client) api(token string) (*gitlab.Client, error) {
	clientOpts := []gitlab.ClientOptionFunc{
		gitlab.WithBaseURL(c.baseURL),
		gitlab.WithoutRetries(),
	}
	if c.httpClient != nil {
		clientOpts = append(clientOpts, gitlab.WithHTTPClient(c.httpClient))
	}

	api, err := gitlab.NewClient(token, clientOpts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitLab client")
	}
	return api, nil
}

// Approve approves the merge request identified by mrURL
func (c *client) Approve(ctx context.Context, mrURL, token string) error {
	ref, err := ParseMergeRequestURL(mrURL)
	if err != nil {
		return err
	}

	api, err := c.api(token)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	_, _, err = api.MergeRequestApprovals.ApproveMergeRequest(ref.ProjectPath, ref.IID,
		&gitlab.ApproveMergeRequestOptions{},
		gitlab.WithContext(ctx))
	if err != nil {
		return goerr.Wrap(err, "failed to approve merge request",
			goerr.V("mr_url", mrURL),
			goerr.V("project", ref.ProjectPath),
			goerr.V("iid", ref.IID))
	}

	return nil
}

// Merge merges the merge request identified by mrURL. The merge does not wait
// for the pipeline: the review already ran, a pending pipeline must not defer
// the reviewer's explicit decision.
func (c *client) Merge(ctx context.Context, mrURL, token string) error {
	ref, err := ParseMergeRequestURL(mrURL)
	if err != nil {
		return err
	}

	api, err := c.api(token)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	_, _, err = api.MergeRequests.AcceptMergeRequest(ref.ProjectPath, ref.IID,
		&gitlab.AcceptMergeRequestOptions{
			MergeWhenPipelineSucceeds: gitlab.Ptr(false),
		},
		gitlab.WithContext(ctx))
	if err != nil {
		return goerr.Wrap(err, "failed to merge merge request",
			goerr.V("mr_url", mrURL),
			goerr.V("project", ref.ProjectPath),
			goerr.V("iid", ref.IID))
	}

	return nil
}

// Close closes the merge request identified by mrURL without merging
func (c *client) Close(ctx context.Context, mrURL, token string) error {
	ref, err := ParseMergeRequestURL(mrURL)
	if err != nil {
		return err
	}

	api, err := c.api(token)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	_, _, err = api.MergeRequests.UpdateMergeRequest(ref.ProjectPath, ref.IID,
		&gitlab.UpdateMergeRequestOptions{
			StateEvent: gitlab.Ptr("close"),
		},
		gitlab.WithContext(ctx))
	if err != nil {
		return goerr.Wrap(err, "failed to close merge request",
			goerr.V("mr_url", mrURL),
			goerr.V("project", ref.ProjectPath),
			goerr.V("iid", ref.IID))
	}

	return nil
}
