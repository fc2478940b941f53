package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"

	"github.com/flatconnect/flatconnect/pkg/domain/interfaces"
	"github.com/flatconnect/flatconnect/pkg/domain/model"
	"github.com/flatconnect/flatconnect/pkg/domain/model/auth"
	"github.com/flatconnect/flatconnect/pkg/domain/types"
	"github.com/flatconnect/flatconnect/pkg/repository"
)

// NotificationUseCase lets a user read their own notifications.
type NotificationUseCase struct {
	repo interfaces.Repository
}

func NewNotificationUseCase(repo interfaces.Repository) *NotificationUseCase {
	return &NotificationUseCase{repo: repo}
}

// List returns the caller's notifications, newest first.
func (uc *NotificationUseCase) List(ctx context.Context, identity *auth.Identity) ([]*model.Notification, error) {
	notifications, err := uc.repo.Notification().ListByUser(ctx, identity.Sub)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list notifications")
	}
	return notifications, nil
}

// MarkRead marks one of the caller's notifications as read. Notifications of
// other users are indistinguishable from missing ones.
func (uc *NotificationUseCase) MarkRead(ctx context.Context, identity *auth.Identity, id types.NotificationID) error {
	if err := uc.repo.Notification().MarkRead(ctx, id, identity.Sub); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return goerr.Wrap(ErrNotificationNotFound, "cannot mark notification read",
				goerr.V("notification_id", id))
		}
		return goerr.Wrap(err, "failed to mark notification read", goerr.V("notification_id", id))
	}
	return nil
}
