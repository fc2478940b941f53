package interfaces

import (
	"context"

	"github.com/flatconnect/flatconnect/pkg/domain/model"
	"github.com/flatconnect/flatconnect/pkg/domain/types"
)

// IssueRepository defines the interface for Issue data access
type IssueRepository interface {
	// Create persists a new issue. ID and timestamps are assigned by the
	// repository.
	Create(ctx context.Context, issue *model.Issue) (*model.Issue, error)

	// Get retrieves an issue by ID
	Get(ctx context.Context, id types.IssueID) (*model.Issue, error)

	// Update replaces an existing issue and bumps UpdatedAt
	Update(ctx context.Context, issue *model.Issue) (*model.Issue, error)

	// Delete deletes an issue by ID
	Delete(ctx context.Context, id types.IssueID) error

	// List retrieves all issues ordered by CreatedAt descending
	List(ctx context.Context) ([]*model.Issue, error)

	// ListByReporter retrieves issues reported by the given user,
	// newest first
	ListByReporter(ctx context.Context, reporterID types.UserID) ([]*model.Issue, error)

	// ListByAssignee retrieves issues assigned to the given worker,
	// newest first
	ListByAssignee(ctx context.Context, workerID types.UserID) ([]*model.Issue, error)
}
