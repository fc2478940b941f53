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

const categorizeSystemPrompt = "You are a triage assistant for a housing society maintenance desk. Pick the single best matching category for an issue. Respond with exactly two fields separated by a single '|' character: the category name exactly as listed, then your confidence between 0 and 1. No other output."

// Categorization assigns a category to the issue based on the known category
// names. The model must answer with one of the listed names; an unknown name
// is a stage error so that a hallucinated category never reaches the issue.
type Categorization struct {
	repo interfaces.Repository
	llm  Completer
}

func NewCategorization(repo interfaces.Repository, llm Completer) *Categorization {
	return &Categorization{repo: repo, llm: llm}
}

func (a *Categorization) Handle(ctx context.Context, issueID types.IssueID) (*Result, error) {
	started := time.Now()

	issue, err := a.repo.Issue().Get(ctx, issueID)
	if err != nil {
		return nil, goerr.Wrap(err, "categorization: failed to load issue", goerr.V("issue_id", issueID))
	}

	categories, err := a.repo.Category().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "categorization: failed to list categories")
	}
	if len(categories) == 0 {
		return nil, goerr.New("categorization: no categories defined", goerr.V("issue_id", issueID))
	}

	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.Name
	}

	resp := a.llm.Complete(ctx, categorizePrompt(issue, names), categorizeSystemPrompt)
	name, confidence := parseCategorization(resp, names)

	category, err := a.repo.Category().GetByName(ctx, name)
	if err != nil {
		return nil, goerr.Wrap(err, "categorization: category lookup failed",
			goerr.V("issue_id", issueID),
			goerr.V("category", name),
		)
	}

	issue.CategoryID = &category.ID
	issue.Status = types.IssueStatusCategorized
	if _, err := a.repo.Issue().Update(ctx, issue); err != nil {
		return nil, goerr.Wrap(err, "categorization: failed to update issue", goerr.V("issue_id", issueID))
	}

	output := map[string]any{
		"category":   category.Name,
		"confidence": confidence,
	}
	if err := recordAction(ctx, a.repo, &model.AgentAction{
		IssueID:        issueID,
		AgentType:      types.AgentTypeCategorization,
		Action:         "categorize_issue",
		Input:          map[string]any{"description": issue.DescriptionTranslated, "categories": names},
		Output:         output,
		Confidence:     confidencePtr(confidence),
		ProcessingTime: time.Since(started).Seconds(),
	}); err != nil {
		return nil, goerr.Wrap(err, "categorization: failed to record action", goerr.V("issue_id", issueID))
	}

	return &Result{
		Output:     output,
		Confidence: confidencePtr(confidence),
		NextStage:  stagePtr(types.StagePriority),
	}, nil
}

func categorizePrompt(issue *model.Issue, names []string) string {
	description := issue.DescriptionTranslated
	if description == "" {
		description = issue.Description
	}
	return fmt.Sprintf("Categories: %s\n\nIssue title: %s\nIssue description: %s\n\nAnswer as CATEGORY|CONFIDENCE.",
		strings.Join(names, ", "), issue.Title, description)
}

// parseCategorization splits a CATEGORY|CONFIDENCE response. Any malformed
// response falls back to the first known category with confidence 0.5.
func parseCategorization(resp string, names []string) (string, float64) {
	parts := strings.SplitN(resp, "|", 2)
	if len(parts) != 2 {
		return names[0], 0.5
	}

	name := strings.TrimSpace(parts[0])
	confidence, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if name == "" || err != nil {
		return names[0], 0.5
	}

	return name, confidence
}
