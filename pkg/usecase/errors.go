package usecase

import "errors"

// Sentinel errors for use case layer
var (
	ErrReviewNotFound    = errors.New("review not found")
	ErrCredentialMissing = errors.New("GitLab credential not configured")
	ErrSettingsNotFound  = errors.New("settings not found")
)

// Context keys for error values
const (
	ReviewIDKey = "review_id"
	MRURLKey    = "mr_url"
	ActionKey   = "action"
)
