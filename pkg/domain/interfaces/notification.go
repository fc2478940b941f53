package interfaces

import (
	"context"

	"github.com/flatconnect/flatconnect/pkg/domain/model"
	"github.com/flatconnect/flatconnect/pkg/domain/types"
)

// NotificationRepository defines the interface for Notification data access
type NotificationRepository interface {
	// Create persists a new notification
	Create(ctx context.Context, notification *model.Notification) (*model.Notification, error)

	// ListByUser retrieves notifications addressed to the given user,
	// newest first
	ListByUser(ctx context.Context, userID types.UserID) ([]*model.Notification, error)

	// MarkRead sets the read flag of a notification owned by the given user
	MarkRead(ctx context.Context, id types.NotificationID, userID types.UserID) error

	// DeleteByIssue removes all notifications referencing an issue. Used
	// only when the issue itself is deleted.
	DeleteByIssue(ctx context.Context, issueID types.IssueID) error
}
