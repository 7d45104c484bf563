package types

import "fmt"

// ReviewAction represents the action a reviewer requested from a notification button
type ReviewAction string

const (
	// ReviewActionApprove approves the merge request and merges it
	ReviewActionApprove ReviewAction = "approve"
	// ReviewActionDecline closes the merge request without merging
	ReviewActionDecline ReviewAction = "decline"
)

// AllReviewActions returns all valid review actions
func AllReviewActions() []ReviewAction {
	return []ReviewAction{
		ReviewActionApprove,
		ReviewActionDecline,
	}
}

// IsValid checks if the review action is valid
func (a ReviewAction) IsValid() bool {
	switch a {
	case ReviewActionApprove,
		ReviewActionDecline:
		return true
	default:
		return false
	}
}

// String returns the string representation of the review action
func (a ReviewAction) String() string {
	return string(a)
}

// ParseReviewAction parses a string into a ReviewAction
func ParseReviewAction(s string) (ReviewAction, error) {
	action := ReviewAction(s)
	if !action.IsValid() {
		return "", fmt.Errorf("invalid review action: %s", s)
	}
	return action, nil
}
