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

type notificationRepository struct {
	client *firestore.Client
}

type notificationDoc struct {
	ID        string    `firestore:"id"`
	UserID    string    `firestore:"user_id"`
	IssueID   *string   `firestore:"issue_id"`
	Message   string    `firestore:"message"`
	Type      string    `firestore:"type"`
	Read      bool      `firestore:"read"`
	CreatedAt time.Time `firestore:"created_at"`
}

func (d *notificationDoc) toModel() *model.Notification {
	notification := &model.Notification{
		ID:        types.NotificationID(d.ID),
		UserID:    types.UserID(d.UserID),
		Message:   d.Message,
		Type:      types.NotificationType(d.Type),
		Read:      d.Read,
		CreatedAt: d.CreatedAt,
	}
	if d.IssueID != nil {
		iid := types.IssueID(*d.IssueID)
		notification.IssueID = &iid
	}
	return notification
}

func (r *notificationRepository) Create(ctx context.Context, notification *model.Notification) (*model.Notification, error) {
	created := *notification
	if created.ID == "" {
		created.ID = types.NewNotificationID()
	}
	if created.Type == "" {
		created.Type = types.NotificationSystem
	}
	created.CreatedAt = time.Now().UTC()

	doc := &notificationDoc{
		ID:        created.ID.String(),
		UserID:    created.UserID.String(),
		Message:   created.Message,
		Type:      created.Type.String(),
		Read:      created.Read,
		CreatedAt: created.CreatedAt,
	}
	if created.IssueID != nil {
		s := created.IssueID.String()
		doc.IssueID = &s
	}
	if _, err := r.client.Collection(collectionNotifications).Doc(doc.ID).Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create notification", goerr.V("user_id", created.UserID))
	}

	return &created, nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID types.UserID) ([]*model.Notification, error) {
	iter := r.client.Collection(collectionNotifications).
		Where("user_id", "==", userID.String()).
		OrderBy("created_at", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var result []*model.Notification
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate notifications")
		}

		var doc notificationDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode notification")
		}
		result = append(result, doc.toModel())
	}

	return result, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id types.NotificationID, userID types.UserID) error {
	ref := r.client.Collection(collectionNotifications).Doc(id.String())
	snap, err := ref.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "notification not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get notification", goerr.V("id", id))
	}

	var doc notificationDoc
	if err := snap.DataTo(&doc); err != nil {
		return goerr.Wrap(err, "failed to decode notification", goerr.V("id", id))
	}

	// Ownership check: only the addressed user can mark it read
	if doc.UserID != userID.String() {
		return goerr.Wrap(ErrNotFound, "notification not found", goerr.V("id", id))
	}

	if _, err := ref.Update(ctx, []firestore.Update{{Path: "read", Value: true}}); err != nil {
		return goerr.Wrap(err, "failed to mark notification read", goerr.V("id", id))
	}

	return nil
}

func (r *notificationRepository) DeleteByIssue(ctx context.Context, issueID types.IssueID) error {
	iter := r.client.Collection(collectionNotifications).
		Where("issue_id", "==", issueID.String()).
		Documents(ctx)
	defer iter.Stop()

	bw := r.client.BulkWriter(ctx)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return goerr.Wrap(err, "failed to iterate notifications for delete")
		}
		if _, err := bw.Delete(snap.Ref); err != nil {
			return goerr.Wrap(err, "failed to schedule notification delete")
		}
	}
	bw.End()

	return nil
}
