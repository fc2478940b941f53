package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/flatconnect/flatconnect/pkg/domain/model"
	"github.com/flatconnect/flatconnect/pkg/domain/types"
)

type userRepository struct {
	client *firestore.Client
}

type userDoc struct {
	ID          string    `firestore:"id"`
	Email       string    `firestore:"email"`
	DisplayName string    `firestore:"display_name"`
	Role        string    `firestore:"role"`
	Verified    bool      `firestore:"verified"`
	CreatedAt   time.Time `firestore:"created_at"`
	UpdatedAt   time.Time `firestore:"updated_at"`
}

func (d *userDoc) toModel() *model.User {
	return &model.User{
		ID:          types.UserID(d.ID),
		Email:       d.Email,
		DisplayName: d.DisplayName,
		Role:        types.Role(d.Role),
		Verified:    d.Verified,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	now := time.Now().UTC()
	created := *user
	if created.ID == "" {
		created.ID = types.NewUserID()
	}
	created.CreatedAt = now
	created.UpdatedAt = now

	doc := &userDoc{
		ID:          created.ID.String(),
		Email:       created.Email,
		DisplayName: created.DisplayName,
		Role:        created.Role.String(),
		Verified:    created.Verified,
		CreatedAt:   created.CreatedAt,
		UpdatedAt:   created.UpdatedAt,
	}
	if _, err := r.client.Collection(collectionUsers).Doc(doc.ID).Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create user", goerr.V("id", created.ID))
	}

	return &created, nil
}

func (r *userRepository) Get(ctx context.Context, id types.UserID) (*model.User, error) {
	snap, err := r.client.Collection(collectionUsers).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "user not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get user", goerr.V("id", id))
	}

	var doc userDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode user", goerr.V("id", id))
	}

	return doc.toModel(), nil
}

func (r *userRepository) List(ctx context.Context) ([]*model.User, error) {
	query := r.client.Collection(collectionUsers).
		OrderBy("created_at", firestore.Asc)
	return r.queryUsers(ctx, query)
}

func (r *userRepository) ListByRoles(ctx context.Context, roles ...types.Role) ([]*model.User, error) {
	values := make([]string, len(roles))
	for i, role := range roles {
		values[i] = role.String()
	}

	query := r.client.Collection(collectionUsers).
		Where("role", "in", values).
		OrderBy("created_at", firestore.Asc)
	return r.queryUsers(ctx, query)
}

func (r *userRepository) queryUsers(ctx context.Context, query firestore.Query) ([]*model.User, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	var result []*model.User
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate users")
		}

		var doc userDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode user")
		}
		result = append(result, doc.toModel())
	}

	return result, nil
}
