package types

// NotificationType represents the kind of a user-facing notification
type NotificationType string

const (
	NotificationIssueAssigned NotificationType = "issue_assigned"
	NotificationIssueUpdated  NotificationType = "issue_updated"
	NotificationIssueResolved NotificationType = "issue_resolved"
	NotificationCommentAdded  NotificationType = "comment_added"
	NotificationSystem        NotificationType = "system"
)

// IsValid checks if the notification type is known
func (n NotificationType) IsValid() bool {
	switch n {
	case NotificationIssueAssigned,
		NotificationIssueUpdated,
		NotificationIssueResolved,
		NotificationCommentAdded,
		NotificationSystem:
		return true
	default:
		return false
	}
}

// String returns the string representation of the notification type
func (n NotificationType) String() string {
	return string(n)
}
