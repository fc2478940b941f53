package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/flatconnect/flatconnect/pkg/domain/interfaces"
	"github.com/flatconnect/flatconnect/pkg/domain/model"
	"github.com/flatconnect/flatconnect/pkg/domain/types"
)

const intakeSystemPrompt = "You are an assistant for a housing society maintenance desk. Rewrite resident issue reports so that maintenance staff can act on them. Keep all factual details, do not invent new ones."

const translateSystemPrompt = "You are a translation assistant. Respond with exactly two fields separated by a single '|' character: the ISO 639-1 code of the source language, then the text translated to English. No other output."

// Intake enhances a freshly reported issue: it rewrites the description for
// clarity and normalizes it into the working language.
type Intake struct {
	repo interfaces.Repository
	llm  Completer
}

func NewIntake(repo interfaces.Repository, llm Completer) *Intake {
	return &Intake{repo: repo, llm: llm}
}

func (a *Intake) Handle(ctx context.Context, issueID types.IssueID) (*Result, error) {
	started := time.Now()

	issue, err := a.repo.Issue().Get(ctx, issueID)
	if err != nil {
		return nil, goerr.Wrap(err, "intake: failed to load issue", goerr.V("issue_id", issueID))
	}
	original := issue.Description

	enhanced := strings.TrimSpace(a.llm.Complete(ctx, enhancePrompt(issue), intakeSystemPrompt))
	if enhanced != "" {
		issue.Description = enhanced
	}

	language, translated := parseTranslation(
		a.llm.Complete(ctx, translatePrompt(issue.Description), translateSystemPrompt),
		issue.Description,
	)
	issue.Language = language
	issue.DescriptionTranslated = translated

	if _, err := a.repo.Issue().Update(ctx, issue); err != nil {
		return nil, goerr.Wrap(err, "intake: failed to update issue", goerr.V("issue_id", issueID))
	}

	output := map[string]any{
		"enhanced": enhanced != "",
		"language": language.String(),
	}
	if err := recordAction(ctx, a.repo, &model.AgentAction{
		IssueID:        issueID,
		AgentType:      types.AgentTypeIntake,
		Action:         "process_intake",
		Input:          map[string]any{"description": original},
		Output:         output,
		ProcessingTime: time.Since(started).Seconds(),
	}); err != nil {
		return nil, goerr.Wrap(err, "intake: failed to record action", goerr.V("issue_id", issueID))
	}

	return &Result{
		Output:    output,
		NextStage: stagePtr(types.StageCategorization),
	}, nil
}

func enhancePrompt(issue *model.Issue) string {
	return fmt.Sprintf("Rewrite the following issue report for clarity.\n\nTitle: %s\nDescription: %s", issue.Title, issue.Description)
}

func translatePrompt(description string) string {
	return fmt.Sprintf("Detect the language of the following text and translate it to English. Answer as LANG|TRANSLATION.\n\n%s", description)
}

// parseTranslation splits a LANG|TRANSLATION response. A missing delimiter or
// empty fields falls back to the working language with the text unchanged.
func parseTranslation(resp, current string) (types.Language, string) {
	parts := strings.SplitN(resp, "|", 2)
	if len(parts) != 2 {
		return types.WorkingLanguage, current
	}

	lang := strings.TrimSpace(parts[0])
	translated := strings.TrimSpace(parts[1])
	if lang == "" || translated == "" {
		return types.WorkingLanguage, current
	}

	return types.Language(strings.ToLower(lang)), translated
}
