package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/flatconnect/flatconnect/pkg/domain/interfaces"
	"github.com/flatconnect/flatconnect/pkg/domain/model"
	"github.com/flatconnect/flatconnect/pkg/repository"
)

func runCategoryRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("GetByName matches exact name only", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Category().Create(ctx, &model.Category{
			Name:        "Plumbing",
			Description: "Pipes, leaks, water supply",
		})
		gt.NoError(t, err).Required()

		found, err := repo.Category().GetByName(ctx, "Plumbing")
		gt.NoError(t, err).Required()
		gt.Value(t, found.Description).Equal("Pipes, leaks, water supply")

		_, err = repo.Category().GetByName(ctx, "plumbing")
		gt.Value(t, err).NotNil()
		gt.Bool(t, errors.Is(err, repository.ErrNotFound)).True()
	})

	t.Run("List returns categories in creation order", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		names := []string{"Electrical", "Plumbing", "Security"}
		for _, name := range names {
			_, err := repo.Category().Create(ctx, &model.Category{Name: name})
			gt.NoError(t, err).Required()
		}

		categories, err := repo.Category().List(ctx)
		gt.NoError(t, err).Required()

		positions := map[string]int{}
		for i, c := range categories {
			positions[c.Name] = i
		}
		for _, name := range names {
			_, ok := positions[name]
			gt.Bool(t, ok).True()
		}
		gt.Bool(t, positions["Electrical"] < positions["Plumbing"]).True()
		gt.Bool(t, positions["Plumbing"] < positions["Security"]).True()
	})
}

func TestCategoryRepositoryMemory(t *testing.T) {
	runCategoryRepositoryTest(t, newMemoryRepo)
}

func TestCategoryRepositoryFirestore(t *testing.T) {
	runCategoryRepositoryTest(t, newFirestoreRepo)
}
