package interfaces

import (
	"context"

	"github.com/flatconnect/flatconnect/pkg/domain/model"
	"github.com/flatconnect/flatconnect/pkg/domain/types"
)

// UserRepository defines the interface for User data access
type UserRepository interface {
	// Create persists a new user
	Create(ctx context.Context, user *model.User) (*model.User, error)

	// Get retrieves a user by ID
	Get(ctx context.Context, id types.UserID) (*model.User, error)

	// List retrieves all users
	List(ctx context.Context) ([]*model.User, error)

	// ListByRoles retrieves users whose role is one of the given roles
	ListByRoles(ctx context.Context, roles ...types.Role) ([]*model.User, error)
}
