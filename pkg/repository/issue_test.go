package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/flatconnect/flatconnect/pkg/domain/interfaces"
	"github.com/flatconnect/flatconnect/pkg/domain/model"
	"github.com/flatconnect/flatconnect/pkg/domain/types"
	"github.com/flatconnect/flatconnect/pkg/repository"
)

func runIssueRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create assigns ID, defaults and timestamps", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Issue().Create(ctx, &model.Issue{
			Title:       "Water leakage in B wing",
			Description: "Water dripping from the ceiling",
			ReporterID:  "user-1",
		})
		gt.NoError(t, err).Required()

		gt.Value(t, created.ID.String()).NotEqual("")
		gt.Value(t, created.Status).Equal(types.IssueStatusNew)
		gt.Value(t, created.Priority).Equal(types.PriorityLow)
		gt.Bool(t, created.CreatedAt.IsZero()).False()
		gt.Bool(t, created.UpdatedAt.IsZero()).False()
		gt.Value(t, created.ResolvedAt).Nil()
	})

	t.Run("Get retrieves a created issue", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Issue().Create(ctx, &model.Issue{
			Title:       "Broken elevator",
			Description: "Elevator stuck on 3rd floor",
			ReporterID:  "user-2",
		})
		gt.NoError(t, err).Required()

		retrieved, err := repo.Issue().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, retrieved.Title).Equal(created.Title)
		gt.Value(t, retrieved.ReporterID).Equal(created.ReporterID)
	})

	t.Run("Get unknown issue returns ErrNotFound", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Issue().Get(ctx, types.NewIssueID())
		gt.Value(t, err).NotNil()
		gt.Bool(t, errors.Is(err, repository.ErrNotFound)).True()
	})

	t.Run("Update preserves CreatedAt and bumps UpdatedAt", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Issue().Create(ctx, &model.Issue{
			Title:       "Street light out",
			Description: "Lamp near gate 2 is dark",
			ReporterID:  "user-3",
		})
		gt.NoError(t, err).Required()

		created.Status = types.IssueStatusCategorized
		cid := types.CategoryID("cat-electrical")
		created.CategoryID = &cid

		updated, err := repo.Issue().Update(ctx, created)
		gt.NoError(t, err).Required()
		gt.Value(t, updated.Status).Equal(types.IssueStatusCategorized)
		gt.Value(t, updated.CategoryID).NotNil()
		gt.Bool(t, updated.CreatedAt.Equal(created.CreatedAt)).True()
		gt.Bool(t, updated.UpdatedAt.Before(created.CreatedAt)).False()
	})

	t.Run("ListByReporter scopes to the reporter", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		reporter := types.NewUserID()
		_, err := repo.Issue().Create(ctx, &model.Issue{Title: "Mine", Description: "x", ReporterID: reporter})
		gt.NoError(t, err).Required()
		_, err = repo.Issue().Create(ctx, &model.Issue{Title: "Theirs", Description: "y", ReporterID: types.NewUserID()})
		gt.NoError(t, err).Required()

		mine, err := repo.Issue().ListByReporter(ctx, reporter)
		gt.NoError(t, err).Required()
		gt.Array(t, mine).Length(1)
		gt.Value(t, mine[0].Title).Equal("Mine")
	})

	t.Run("ListByAssignee scopes to the worker", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		worker := types.NewUserID()
		issue, err := repo.Issue().Create(ctx, &model.Issue{Title: "Assigned", Description: "z", ReporterID: "user-4"})
		gt.NoError(t, err).Required()

		issue.AssignedTo = &worker
		issue.Status = types.IssueStatusAssigned
		_, err = repo.Issue().Update(ctx, issue)
		gt.NoError(t, err).Required()

		assigned, err := repo.Issue().ListByAssignee(ctx, worker)
		gt.NoError(t, err).Required()
		gt.Array(t, assigned).Length(1)
		gt.Value(t, assigned[0].Title).Equal("Assigned")
	})

	t.Run("Delete removes the issue", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Issue().Create(ctx, &model.Issue{Title: "Temp", Description: "t", ReporterID: "user-5"})
		gt.NoError(t, err).Required()

		gt.NoError(t, repo.Issue().Delete(ctx, created.ID)).Required()

		_, err = repo.Issue().Get(ctx, created.ID)
		gt.Bool(t, errors.Is(err, repository.ErrNotFound)).True()
	})
}

func TestIssueRepositoryMemory(t *testing.T) {
	runIssueRepositoryTest(t, newMemoryRepo)
}

func TestIssueRepositoryFirestore(t *testing.T) {
	runIssueRepositoryTest(t, newFirestoreRepo)
}
