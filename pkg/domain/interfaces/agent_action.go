package interfaces

import (
	"context"

	"github.com/flatconnect/flatconnect/pkg/domain/model"
	"github.com/flatconnect/flatconnect/pkg/domain/types"
)

// AgentActionRepository defines the interface for the append-only audit
// trail. There is deliberately no update operation.
type AgentActionRepository interface {
	// Create appends a new audit record
	Create(ctx context.Context, action *model.AgentAction) (*model.AgentAction, error)

	// ListByIssue retrieves all audit records for an issue ordered by
	// CreatedAt ascending
	ListByIssue(ctx context.Context, issueID types.IssueID) ([]*model.AgentAction, error)

	// DeleteByIssue removes all audit records owned by an issue. Used only
	// when the issue itself is deleted.
	DeleteByIssue(ctx context.Context, issueID types.IssueID) error
}
