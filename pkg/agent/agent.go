// Package agent holds the pipeline stage handlers. Each handler performs one
// transformation of an issue, appends one audit record on success, and names
// the next stage to run. Handlers never enqueue work themselves; the
// dispatcher owns chaining.
package agent

import (
	"context"

	"github.com/flatconnect/flatconnect/pkg/domain/interfaces"
	"github.com/flatconnect/flatconnect/pkg/domain/model"
	"github.com/flatconnect/flatconnect/pkg/domain/types"
)

// Completer is the LLM boundary as the stages see it. An empty return value
// means the model gave no usable opinion and the stage applies its fallback.
type Completer interface {
	Complete(ctx context.Context, prompt, systemPrompt string) string
}

// Result is the outcome of a successful stage run.
type Result struct {
	Output     map[string]any
	Confidence *float64
	NextStage  *types.Stage
}

// Handler executes one pipeline stage for the given issue.
type Handler interface {
	Handle(ctx context.Context, issueID types.IssueID) (*Result, error)
}

func recordAction(ctx context.Context, repo interfaces.Repository, action *model.AgentAction) error {
	_, err := repo.AgentAction().Create(ctx, action)
	return err
}

func stagePtr(s types.Stage) *types.Stage {
	return &s
}

func confidencePtr(c float64) *float64 {
	return &c
}
