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

func runNotificationRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("ListByUser returns only the user's notifications", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		userID := types.NewUserID()
		_, err := repo.Notification().Create(ctx, &model.Notification{
			UserID:  userID,
			Message: "You have been assigned an issue",
			Type:    types.NotificationIssueAssigned,
		})
		gt.NoError(t, err).Required()
		_, err = repo.Notification().Create(ctx, &model.Notification{
			UserID:  types.NewUserID(),
			Message: "Someone else's notice",
			Type:    types.NotificationSystem,
		})
		gt.NoError(t, err).Required()

		notifications, err := repo.Notification().ListByUser(ctx, userID)
		gt.NoError(t, err).Required()
		gt.Array(t, notifications).Length(1)
		gt.Value(t, notifications[0].Message).Equal("You have been assigned an issue")
		gt.Bool(t, notifications[0].Read).False()
	})

	t.Run("MarkRead flips the flag for the owner", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		userID := types.NewUserID()
		created, err := repo.Notification().Create(ctx, &model.Notification{
			UserID:  userID,
			Message: "Issue resolved",
			Type:    types.NotificationIssueResolved,
		})
		gt.NoError(t, err).Required()

		gt.NoError(t, repo.Notification().MarkRead(ctx, created.ID, userID)).Required()

		notifications, err := repo.Notification().ListByUser(ctx, userID)
		gt.NoError(t, err).Required()
		gt.Array(t, notifications).Length(1)
		gt.Bool(t, notifications[0].Read).True()
	})

	t.Run("MarkRead by another user is rejected", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		owner := types.NewUserID()
		created, err := repo.Notification().Create(ctx, &model.Notification{
			UserID:  owner,
			Message: "Private notice",
			Type:    types.NotificationSystem,
		})
		gt.NoError(t, err).Required()

		err = repo.Notification().MarkRead(ctx, created.ID, types.NewUserID())
		gt.Value(t, err).NotNil()
		gt.Bool(t, errors.Is(err, repository.ErrNotFound)).True()

		notifications, err := repo.Notification().ListByUser(ctx, owner)
		gt.NoError(t, err).Required()
		gt.Bool(t, notifications[0].Read).False()
	})

	t.Run("DeleteByIssue removes issue-linked notifications only", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		userID := types.NewUserID()
		issueID := types.NewIssueID()
		_, err := repo.Notification().Create(ctx, &model.Notification{
			UserID:  userID,
			IssueID: &issueID,
			Message: "Issue update",
			Type:    types.NotificationIssueUpdated,
		})
		gt.NoError(t, err).Required()
		_, err = repo.Notification().Create(ctx, &model.Notification{
			UserID:  userID,
			Message: "Unrelated notice",
			Type:    types.NotificationSystem,
		})
		gt.NoError(t, err).Required()

		gt.NoError(t, repo.Notification().DeleteByIssue(ctx, issueID)).Required()

		notifications, err := repo.Notification().ListByUser(ctx, userID)
		gt.NoError(t, err).Required()
		gt.Array(t, notifications).Length(1)
		gt.Value(t, notifications[0].Message).Equal("Unrelated notice")
	})
}

func TestNotificationRepositoryMemory(t *testing.T) {
	runNotificationRepositoryTest(t, newMemoryRepo)
}

func TestNotificationRepositoryFirestore(t *testing.T) {
	runNotificationRepositoryTest(t, newFirestoreRepo)
}
