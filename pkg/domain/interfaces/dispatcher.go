package interfaces

import (
	"context"

	"github.com/flatconnect/flatconnect/pkg/domain/types"
)

// StageEnqueuer accepts pipeline stage invocations for asynchronous
// execution. Enqueue returns as soon as the task is accepted; the enqueuer
// never observes the stage result.
type StageEnqueuer interface {
	Enqueue(ctx context.Context, stage types.Stage, issueID types.IssueID) error
}
