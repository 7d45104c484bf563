package types

import "fmt"

// Severity represents the severity level of a single review issue
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// AllSeverities returns all valid severities, ordered from most to least severe
func AllSeverities() []Severity {
	return []Severity{
		SeverityError,
		SeverityWarning,
		SeverityInfo,
	}
}

// IsValid checks if the severity is valid
func (s Severity) IsValid() bool {
	switch s {
	case SeverityError,
		SeverityWarning,
		SeverityInfo:
		return true
	default:
		return false
	}
}

// String returns the string representation of the severity
func (s Severity) String() string {
	return string(s)
}

// ParseSeverity parses a string into a Severity
func ParseSeverity(s string) (Severity, error) {
	severity := Severity(s)
	if !severity.IsValid() {
		return "", fmt.Errorf("invalid severity: %s", s)
	}
	return severity, nil
}
