package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/aiakos/pkg/domain/types"
)

// Issue represents a single finding reported by the automated review
type Issue struct {
	ID         types.IssueID  `json:"id"`
	File       string         `json:"file"`
	Line       int            `json:"line"`
	Severity   types.Severity `json:"severity"`
	Message    string         `json:"message"`
	Rule       string         `json:"rule"`
	Suggestion string         `json:"suggestion,omitempty"`
}

// Review represents a completed automated merge request review. A Review is
// immutable once stored; button presses append TelegramAction records instead
// of mutating it. Issues keep the order the reviewer produced them in.
type Review struct {
	ID           types.ReviewID     `json:"id"`
	MRURL        string             `json:"mr_url"`
	MRTitle      string             `json:"mr_title"`
	Author       string             `json:"author"`
	FilesChanged int                `json:"files_changed"`
	LinesAdded   int                `json:"lines_added"`
	LinesRemoved int                `json:"lines_removed"`
	ReviewTime   string             `json:"review_time"`
	Status       types.ReviewStatus `json:"status"`
	Issues       []Issue            `json:"issues"`
	Summary      string             `json:"summary"`
	ReviewedAt   time.Time          `json:"reviewed_at"`

	// GitLabToken authorizes remote actions for this merge request. It is
	// optional at ingestion; without it the orchestrator refuses to act.
	GitLabToken     string `json:"gitlab_token,omitempty" masq:"secret"`
	ProjectID       string `json:"project_id,omitempty"`
	MergeRequestIID int    `json:"merge_request_iid,omitempty"`
}

// Validate checks the fields required to notify and act on a review
func (r *Review) Validate() error {
	if r.MRURL == "" {
		return goerr.New("mr_url is required")
	}
	if r.MRTitle == "" {
		return goerr.New("mr_title is required")
	}
	if !r.Status.IsValid() {
		return goerr.New("invalid review status", goerr.V("status", r.Status))
	}
	for _, issue := range r.Issues {
		if !issue.Severity.IsValid() {
			return goerr.New("invalid issue severity",
				goerr.V("severity", issue.Severity), goerr.V("file", issue.File))
		}
	}
	return nil
}

// HasCredential reports whether the review carries a GitLab token usable for
// remote actions
func (r *Review) HasCredential() bool {
	return r.GitLabToken != ""
}
