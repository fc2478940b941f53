package types

import "github.com/m-mizutani/goerr/v2"

// IssueStatus represents the lifecycle state of an issue
type IssueStatus string

const (
	IssueStatusNew               IssueStatus = "new"
	IssueStatusCategorized       IssueStatus = "categorized"
	IssueStatusPendingAssignment IssueStatus = "pending_assignment"
	IssueStatusAssigned          IssueStatus = "assigned"
	IssueStatusInProgress        IssueStatus = "in_progress"
	IssueStatusResolved          IssueStatus = "resolved"
	IssueStatusClosed            IssueStatus = "closed"
)

// AllIssueStatuses returns all valid issue statuses
func AllIssueStatuses() []IssueStatus {
	return []IssueStatus{
		IssueStatusNew,
		IssueStatusCategorized,
		IssueStatusPendingAssignment,
		IssueStatusAssigned,
		IssueStatusInProgress,
		IssueStatusResolved,
		IssueStatusClosed,
	}
}

// IsValid checks if the issue status is valid
func (s IssueStatus) IsValid() bool {
	switch s {
	case IssueStatusNew,
		IssueStatusCategorized,
		IssueStatusPendingAssignment,
		IssueStatusAssigned,
		IssueStatusInProgress,
		IssueStatusResolved,
		IssueStatusClosed:
		return true
	default:
		return false
	}
}

// String returns the string representation of the issue status
func (s IssueStatus) String() string {
	return string(s)
}

// ParseIssueStatus parses a string into an IssueStatus
func ParseIssueStatus(s string) (IssueStatus, error) {
	status := IssueStatus(s)
	if !status.IsValid() {
		return "", goerr.New("invalid issue status", goerr.V("status", s))
	}
	return status, nil
}
