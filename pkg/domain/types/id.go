package types

import "github.com/google/uuid"

// ReviewID represents the unique identifier for a review record
type ReviewID string

// NewReviewID generates a new UUID v4 ReviewID
func NewReviewID() ReviewID {
	return ReviewID(uuid.New().String())
}

// String returns the string representation of ReviewID
func (id ReviewID) String() string {
	return string(id)
}

// ActionID represents the unique identifier for a recorded review action
type ActionID string

// NewActionID generates a new UUID v4 ActionID
func NewActionID() ActionID {
	return ActionID(uuid.New().String())
}

// String returns the string representation of ActionID
func (id ActionID) String() string {
	return string(id)
}

// IssueID represents the unique identifier for a review issue
type IssueID string

// NewIssueID generates a new UUID v4 IssueID
func NewIssueID() IssueID {
	return IssueID(uuid.New().String())
}

// String returns the string representation of IssueID
func (id IssueID) String() string {
	return string(id)
}

// SettingsID represents the unique identifier for a settings document
type SettingsID string

// NewSettingsID generates a new UUID v4 SettingsID
func NewSettingsID() SettingsID {
	return SettingsID(uuid.New().String())
}

// String returns the string representation of SettingsID
func (id SettingsID) String() string {
	return string(id)
}
