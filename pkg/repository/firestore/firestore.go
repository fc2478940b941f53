package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"

	"github.com/flatconnect/flatconnect/pkg/domain/interfaces"
	"github.com/flatconnect/flatconnect/pkg/repository"
)

// ErrNotFound is the shared not-found sentinel re-exported for this backend
var ErrNotFound = repository.ErrNotFound

// Collection names
const (
	collectionIssues        = "issues"
	collectionCategories    = "categories"
	collectionUsers         = "users"
	collectionAgentActions  = "agent_actions"
	collectionNotifications = "notifications"
)

type Firestore struct {
	client       *firestore.Client
	issue        *issueRepository
	category     *categoryRepository
	user         *userRepository
	agentAction  *agentActionRepository
	notification *notificationRepository
}

var _ interfaces.Repository = &Firestore{}

func New(ctx context.Context, projectID, databaseID string) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID),
		)
	}

	return &Firestore{
		client:       client,
		issue:        &issueRepository{client: client},
		category:     &categoryRepository{client: client},
		user:         &userRepository{client: client},
		agentAction:  &agentActionRepository{client: client},
		notification: &notificationRepository{client: client},
	}, nil
}

func (f *Firestore) Issue() interfaces.IssueRepository {
	return f.issue
}

func (f *Firestore) Category() interfaces.CategoryRepository {
	return f.category
}

func (f *Firestore) User() interfaces.UserRepository {
	return f.user
}

func (f *Firestore) AgentAction() interfaces.AgentActionRepository {
	return f.agentAction
}

func (f *Firestore) Notification() interfaces.NotificationRepository {
	return f.notification
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
