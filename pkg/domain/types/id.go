package types

import "github.com/google/uuid"

// IssueID is the globally unique identifier of an issue. Generated once at
// creation and never reused.
type IssueID string

// NewIssueID generates a new UUIDv7 based IssueID
func NewIssueID() IssueID {
	return IssueID(uuid.Must(uuid.NewV7()).String())
}

// String returns the string representation of IssueID
func (id IssueID) String() string {
	return string(id)
}

// UserID identifies a registered user
type UserID string

// NewUserID generates a new UserID
func NewUserID() UserID {
	return UserID(uuid.New().String())
}

// String returns the string representation of UserID
func (id UserID) String() string {
	return string(id)
}

// CategoryID identifies an issue category
type CategoryID string

// NewCategoryID generates a new CategoryID
func NewCategoryID() CategoryID {
	return CategoryID(uuid.New().String())
}

// String returns the string representation of CategoryID
func (id CategoryID) String() string {
	return string(id)
}

// ActionID identifies an agent action audit record
type ActionID string

// NewActionID generates a new UUIDv7 based ActionID
func NewActionID() ActionID {
	return ActionID(uuid.Must(uuid.NewV7()).String())
}

// String returns the string representation of ActionID
func (id ActionID) String() string {
	return string(id)
}

// NotificationID identifies a notification
type NotificationID string

// NewNotificationID generates a new UUIDv7 based NotificationID
func NewNotificationID() NotificationID {
	return NotificationID(uuid.Must(uuid.NewV7()).String())
}

// String returns the string representation of NotificationID
func (id NotificationID) String() string {
	return string(id)
}
