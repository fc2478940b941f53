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

type notificationRepository struct {
	mu            sync.RWMutex
	notifications map[types.NotificationID]*model.Notification
}

func newNotificationRepository() *notificationRepository {
	return &notificationRepository{
		notifications: make(map[types.NotificationID]*model.Notification),
	}
}

func copyNotification(n *model.Notification) *model.Notification {
	copied := *n
	if n.IssueID != nil {
		iid := *n.IssueID
		copied.IssueID = &iid
	}
	return &copied
}

func (r *notificationRepository) Create(ctx context.Context, notification *model.Notification) (*model.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyNotification(notification)
	if created.ID == "" {
		created.ID = types.NewNotificationID()
	}
	if created.Type == "" {
		created.Type = types.NotificationSystem
	}
	created.CreatedAt = time.Now().UTC()

	r.notifications[created.ID] = created
	return copyNotification(created), nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID types.UserID) ([]*model.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Notification, 0)
	for _, notification := range r.notifications {
		if notification.UserID == userID {
			result = append(result, copyNotification(notification))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id types.NotificationID, userID types.UserID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	notification, exists := r.notifications[id]
	if !exists || notification.UserID != userID {
		return goerr.Wrap(ErrNotFound, "notification not found", goerr.V("id", id))
	}

	notification.Read = true
	return nil
}

func (r *notificationRepository) DeleteByIssue(ctx context.Context, issueID types.IssueID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, notification := range r.notifications {
		if notification.IssueID != nil && *notification.IssueID == issueID {
			delete(r.notifications, id)
		}
	}
	return nil
}
