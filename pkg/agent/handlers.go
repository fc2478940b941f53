package agent

import (
	"context"

	"github.com/flatconnect/flatconnect/pkg/domain/interfaces"
	"github.com/flatconnect/flatconnect/pkg/domain/types"
	"github.com/flatconnect/flatconnect/pkg/service/dispatcher"
)

// Handlers builds the dispatcher registry for the automatic pipeline:
// intake → categorization → priority.
func Handlers(repo interfaces.Repository, llm Completer) map[types.Stage]dispatcher.Handler {
	wrap := func(h Handler) dispatcher.Handler {
		return func(ctx context.Context, issueID types.IssueID) (*types.Stage, error) {
			result, err := h.Handle(ctx, issueID)
			if err != nil {
				return nil, err
			}
			return result.NextStage, nil
		}
	}

	return map[types.Stage]dispatcher.Handler{
		types.StageIntake:         wrap(NewIntake(repo, llm)),
		types.StageCategorization: wrap(NewCategorization(repo, llm)),
		types.StagePriority:       wrap(NewPrioritization(repo, llm)),
	}
}
