package types

import "fmt"

// ReviewStatus represents the overall outcome of an automated merge request review
type ReviewStatus string

const (
	ReviewStatusPassed   ReviewStatus = "passed"
	ReviewStatusWarnings ReviewStatus = "warnings"
	ReviewStatusFailed   ReviewStatus = "failed"
)

// AllReviewStatuses returns all valid review statuses
func AllReviewStatuses() []ReviewStatus {
	return []ReviewStatus{
		ReviewStatusPassed,
		ReviewStatusWarnings,
		ReviewStatusFailed,
	}
}

// IsValid checks if the review status is valid
func (s ReviewStatus) IsValid() bool {
	switch s {
	case ReviewStatusPassed,
		ReviewStatusWarnings,
		ReviewStatusFailed:
		return true
	default:
		return false
	}
}

// String returns the string representation of the review status
func (s ReviewStatus) String() string {
	return string(s)
}

// ParseReviewStatus parses a string into a ReviewStatus
func ParseReviewStatus(s string) (ReviewStatus, error) {
	status := ReviewStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid review status: %s", s)
	}
	return status, nil
}
