package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"

	"github.com/flatconnect/flatconnect/pkg/domain/model"
	"github.com/flatconnect/flatconnect/pkg/domain/types"
)

type agentActionRepository struct {
	client *firestore.Client
}

type agentActionDoc struct {
	ID             string         `firestore:"id"`
	IssueID        string         `firestore:"issue_id"`
	AgentType      string         `firestore:"agent_type"`
	Action         string         `firestore:"action"`
	Input          map[string]any `firestore:"input"`
	Output         map[string]any `firestore:"output"`
	Confidence     *float64       `firestore:"confidence"`
	ProcessingTime float64        `firestore:"processing_time"`
	CreatedAt      time.Time      `firestore:"created_at"`
}

func (d *agentActionDoc) toModel() *model.AgentAction {
	return &model.AgentAction{
		ID:             types.ActionID(d.ID),
		IssueID:        types.IssueID(d.IssueID),
		AgentType:      types.AgentType(d.AgentType),
		Action:         d.Action,
		Input:          d.Input,
		Output:         d.Output,
		Confidence:     d.Confidence,
		ProcessingTime: d.ProcessingTime,
		CreatedAt:      d.CreatedAt,
	}
}

func (r *agentActionRepository) Create(ctx context.Context, action *model.AgentAction) (*model.AgentAction, error) {
	created := *action
	if created.ID == "" {
		created.ID = types.NewActionID()
	}
	created.CreatedAt = time.Now().UTC()

	doc := &agentActionDoc{
		ID:             created.ID.String(),
		IssueID:        created.IssueID.String(),
		AgentType:      created.AgentType.String(),
		Action:         created.Action,
		Input:          created.Input,
		Output:         created.Output,
		Confidence:     created.Confidence,
		ProcessingTime: created.ProcessingTime,
		CreatedAt:      created.CreatedAt,
	}
	if _, err := r.client.Collection(collectionAgentActions).Doc(doc.ID).Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create agent action",
			goerr.V("issue_id", created.IssueID),
			goerr.V("agent_type", created.AgentType),
		)
	}

	return &created, nil
}

func (r *agentActionRepository) ListByIssue(ctx context.Context, issueID types.IssueID) ([]*model.AgentAction, error) {
	iter := r.client.Collection(collectionAgentActions).
		Where("issue_id", "==", issueID.String()).
		OrderBy("created_at", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var result []*model.AgentAction
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate agent actions")
		}

		var doc agentActionDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode agent action")
		}
		result = append(result, doc.toModel())
	}

	return result, nil
}

func (r *agentActionRepository) DeleteByIssue(ctx context.Context, issueID types.IssueID) error {
	iter := r.client.Collection(collectionAgentActions).
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
			return goerr.Wrap(err, "failed to iterate agent actions for delete")
		}
		if _, err := bw.Delete(snap.Ref); err != nil {
			return goerr.Wrap(err, "failed to schedule agent action delete")
		}
	}
	bw.End()

	return nil
}
