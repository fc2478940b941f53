package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/flatconnect/flatconnect/pkg/domain/model"
	"github.com/flatconnect/flatconnect/pkg/domain/types"
)

type agentActionRepository struct {
	mu      sync.RWMutex
	actions map[types.IssueID][]*model.AgentAction
}

func newAgentActionRepository() *agentActionRepository {
	return &agentActionRepository{
		actions: make(map[types.IssueID][]*model.AgentAction),
	}
}

func copySnapshot(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	copied := make(map[string]any, len(src))
	for k, v := range src {
		copied[k] = v
	}
	return copied
}

func copyAgentAction(a *model.AgentAction) *model.AgentAction {
	copied := &model.AgentAction{
		ID:             a.ID,
		IssueID:        a.IssueID,
		AgentType:      a.AgentType,
		Action:         a.Action,
		Input:          copySnapshot(a.Input),
		Output:         copySnapshot(a.Output),
		ProcessingTime: a.ProcessingTime,
		CreatedAt:      a.CreatedAt,
	}
	if a.Confidence != nil {
		c := *a.Confidence
		copied.Confidence = &c
	}
	return copied
}

func (r *agentActionRepository) Create(ctx context.Context, action *model.AgentAction) (*model.AgentAction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyAgentAction(action)
	if created.ID == "" {
		created.ID = types.NewActionID()
	}
	created.CreatedAt = time.Now().UTC()

	r.actions[created.IssueID] = append(r.actions[created.IssueID], created)
	return copyAgentAction(created), nil
}

func (r *agentActionRepository) ListByIssue(ctx context.Context, issueID types.IssueID) ([]*model.AgentAction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	actions := r.actions[issueID]
	result := make([]*model.AgentAction, 0, len(actions))
	for _, action := range actions {
		result = append(result, copyAgentAction(action))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result, nil
}

func (r *agentActionRepository) DeleteByIssue(ctx context.Context, issueID types.IssueID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.actions, issueID)
	return nil
}
