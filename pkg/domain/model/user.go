package model

import (
	"time"

	"github.com/flatconnect/flatconnect/pkg/domain/types"
)

// User represents a registered society member with a profile role
type User struct {
	ID          types.UserID
	Email       string
	DisplayName string
	Role        types.Role
	Verified    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Name returns the display name, falling back to the email address
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Email
}
