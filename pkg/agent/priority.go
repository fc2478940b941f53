package agent

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/flatconnect/flatconnect/pkg/domain/interfaces"
	"github.com/flatconnect/flatconnect/pkg/domain/model"
	"github.com/flatconnect/flatconnect/pkg/domain/types"
)

const prioritySystemPrompt = "You are a triage assistant for a housing society maintenance desk. Rate the urgency of an issue on a scale of 1 (low) to 4 (critical). Respond with exactly two fields separated by a single '|' character: the priority level, then your confidence between 0 and 1. No other output."

// Prioritization rates the urgency of a categorized issue. It ends the
// automatic chain: assignment stays a human decision.
type Prioritization struct {
	repo interfaces.Repository
	llm  Completer
}

func NewPrioritization(repo interfaces.Repository, llm Completer) *Prioritization {
	return &Prioritization{repo: repo, llm: llm}
}

func (a *Prioritization) Handle(ctx context.Context, issueID types.IssueID) (*Result, error) {
	started := time.Now()

	issue, err := a.repo.Issue().Get(ctx, issueID)
	if err != nil {
		return nil, goerr.Wrap(err, "prioritization: failed to load issue", goerr.V("issue_id", issueID))
	}

	var categoryName string
	if issue.CategoryID != nil {
		category, err := a.repo.Category().Get(ctx, *issue.CategoryID)
		if err != nil {
			return nil, goerr.Wrap(err, "prioritization: failed to load category",
				goerr.V("issue_id", issueID),
				goerr.V("category_id", *issue.CategoryID),
			)
		}
		categoryName = category.Name
	}

	resp := a.llm.Complete(ctx, priorityPrompt(issue, categoryName), prioritySystemPrompt)
	priority, confidence := parsePriority(resp)

	issue.Priority = priority
	if _, err := a.repo.Issue().Update(ctx, issue); err != nil {
		return nil, goerr.Wrap(err, "prioritization: failed to update issue", goerr.V("issue_id", issueID))
	}

	output := map[string]any{
		"priority":   int(priority),
		"confidence": confidence,
	}
	if err := recordAction(ctx, a.repo, &model.AgentAction{
		IssueID:        issueID,
		AgentType:      types.AgentTypePriority,
		Action:         "prioritize_issue",
		Input:          map[string]any{"description": issue.DescriptionTranslated, "category": categoryName},
		Output:         output,
		Confidence:     confidencePtr(confidence),
		ProcessingTime: time.Since(started).Seconds(),
	}); err != nil {
		return nil, goerr.Wrap(err, "prioritization: failed to record action", goerr.V("issue_id", issueID))
	}

	return &Result{
		Output:     output,
		Confidence: confidencePtr(confidence),
	}, nil
}

func priorityPrompt(issue *model.Issue, categoryName string) string {
	description := issue.DescriptionTranslated
	if description == "" {
		description = issue.Description
	}
	return fmt.Sprintf("Category: %s\nIssue title: %s\nIssue description: %s\n\nAnswer as PRIORITY|CONFIDENCE.",
		categoryName, issue.Title, description)
}

// parsePriority splits a PRIORITY|CONFIDENCE response. Malformed or
// out-of-range responses fall back to medium priority with confidence 0.5.
func parsePriority(resp string) (types.Priority, float64) {
	parts := strings.SplitN(resp, "|", 2)
	if len(parts) != 2 {
		return types.PriorityMedium, 0.5
	}

	level, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return types.PriorityMedium, 0.5
	}
	priority, err := types.ParsePriority(level)
	if err != nil {
		return types.PriorityMedium, 0.5
	}

	confidence, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return types.PriorityMedium, 0.5
	}

	return priority, confidence
}
