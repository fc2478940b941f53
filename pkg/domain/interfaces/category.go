package interfaces

import (
	"context"

	"github.com/flatconnect/flatconnect/pkg/domain/model"
	"github.com/flatconnect/flatconnect/pkg/domain/types"
)

// CategoryRepository defines the interface for Category data access
type CategoryRepository interface {
	// Create persists a new category
	Create(ctx context.Context, category *model.Category) (*model.Category, error)

	// Get retrieves a category by ID
	Get(ctx context.Context, id types.CategoryID) (*model.Category, error)

	// GetByName retrieves a category by exact name match
	GetByName(ctx context.Context, name string) (*model.Category, error)

	// List retrieves all categories in creation order
	List(ctx context.Context) ([]*model.Category, error)
}
