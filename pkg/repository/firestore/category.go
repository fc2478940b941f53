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

type categoryRepository struct {
	client *firestore.Client
}

type categoryDoc struct {
	ID              string    `firestore:"id"`
	Name            string    `firestore:"name"`
	Description     string    `firestore:"description"`
	DefaultAssignee string    `firestore:"default_assignee"`
	CreatedAt       time.Time `firestore:"created_at"`
}

func (d *categoryDoc) toModel() *model.Category {
	return &model.Category{
		ID:              types.CategoryID(d.ID),
		Name:            d.Name,
		Description:     d.Description,
		DefaultAssignee: d.DefaultAssignee,
		CreatedAt:       d.CreatedAt,
	}
}

func (r *categoryRepository) Create(ctx context.Context, category *model.Category) (*model.Category, error) {
	created := *category
	if created.ID == "" {
		created.ID = types.NewCategoryID()
	}
	created.CreatedAt = time.Now().UTC()

	doc := &categoryDoc{
		ID:              created.ID.String(),
		Name:            created.Name,
		Description:     created.Description,
		DefaultAssignee: created.DefaultAssignee,
		CreatedAt:       created.CreatedAt,
	}
	if _, err := r.client.Collection(collectionCategories).Doc(doc.ID).Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create category", goerr.V("name", created.Name))
	}

	return &created, nil
}

func (r *categoryRepository) Get(ctx context.Context, id types.CategoryID) (*model.Category, error) {
	snap, err := r.client.Collection(collectionCategories).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "category not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get category", goerr.V("id", id))
	}

	var doc categoryDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode category", goerr.V("id", id))
	}

	return doc.toModel(), nil
}

func (r *categoryRepository) GetByName(ctx context.Context, name string) (*model.Category, error) {
	iter := r.client.Collection(collectionCategories).
		Where("name", "==", name).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == iterator.Done {
		return nil, goerr.Wrap(ErrNotFound, "category not found", goerr.V("name", name))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query category", goerr.V("name", name))
	}

	var doc categoryDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode category", goerr.V("name", name))
	}

	return doc.toModel(), nil
}

func (r *categoryRepository) List(ctx context.Context) ([]*model.Category, error) {
	iter := r.client.Collection(collectionCategories).
		OrderBy("created_at", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var result []*model.Category
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate categories")
		}

		var doc categoryDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode category")
		}
		result = append(result, doc.toModel())
	}

	return result, nil
}
