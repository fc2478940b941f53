package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/flatconnect/flatconnect/pkg/domain/model"
	"github.com/flatconnect/flatconnect/pkg/domain/types"
)

type categoryRepository struct {
	mu         sync.RWMutex
	categories map[types.CategoryID]*model.Category
}

func newCategoryRepository() *categoryRepository {
	return &categoryRepository{
		categories: make(map[types.CategoryID]*model.Category),
	}
}

func copyCategory(c *model.Category) *model.Category {
	copied := *c
	return &copied
}

func (r *categoryRepository) Create(ctx context.Context, category *model.Category) (*model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyCategory(category)
	if created.ID == "" {
		created.ID = types.NewCategoryID()
	}
	created.CreatedAt = time.Now().UTC()

	r.categories[created.ID] = created
	return copyCategory(created), nil
}

func (r *categoryRepository) Get(ctx context.Context, id types.CategoryID) (*model.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	category, ok := r.categories[id]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "category not found", goerr.V("id", id))
	}

	return copyCategory(category), nil
}

func (r *categoryRepository) GetByName(ctx context.Context, name string) (*model.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, category := range r.categories {
		if category.Name == name {
			return copyCategory(category), nil
		}
	}

	return nil, goerr.Wrap(ErrNotFound, "category not found", goerr.V("name", name))
}

func (r *categoryRepository) List(ctx context.Context) ([]*model.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Category, 0, len(r.categories))
	for _, category := range r.categories {
		result = append(result, copyCategory(category))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result, nil
}
