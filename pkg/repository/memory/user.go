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

type userRepository struct {
	mu    sync.RWMutex
	users map[types.UserID]*model.User
}

func newUserRepository() *userRepository {
	return &userRepository{
		users: make(map[types.UserID]*model.User),
	}
}

func copyUser(u *model.User) *model.User {
	copied := *u
	return &copied
}

func (r *userRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := copyUser(user)
	if created.ID == "" {
		created.ID = types.NewUserID()
	}
	created.CreatedAt = now
	created.UpdatedAt = now

	r.users[created.ID] = created
	return copyUser(created), nil
}

func (r *userRepository) Get(ctx context.Context, id types.UserID) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.users[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "user not found", goerr.V("id", id))
	}

	return copyUser(user), nil
}

func (r *userRepository) List(ctx context.Context) ([]*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(*model.User) bool { return true }), nil
}

func (r *userRepository) ListByRoles(ctx context.Context, roles ...types.Role) ([]*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(u *model.User) bool {
		for _, role := range roles {
			if u.Role == role {
				return true
			}
		}
		return false
	}), nil
}

func (r *userRepository) collect(match func(*model.User) bool) []*model.User {
	result := make([]*model.User, 0, len(r.users))
	for _, user := range r.users {
		if match(user) {
			result = append(result, copyUser(user))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result
}
