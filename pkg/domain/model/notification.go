package model

import (
	"time"

	"github.com/flatconnect/flatconnect/pkg/domain/types"
)

// Notification is an in-app notice addressed to a single user, optionally
// referencing an issue. It is read and cleared by the owning user only.
type Notification struct {
	ID        types.NotificationID
	UserID    types.UserID
	IssueID   *types.IssueID
	Message   string
	Type      types.NotificationType
	Read      bool
	CreatedAt time.Time
}
