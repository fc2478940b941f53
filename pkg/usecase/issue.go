package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/flatconnect/flatconnect/pkg/domain/interfaces"
	"github.com/flatconnect/flatconnect/pkg/domain/model"
	"github.com/flatconnect/flatconnect/pkg/domain/model/auth"
	"github.com/flatconnect/flatconnect/pkg/domain/types"
	"github.com/flatconnect/flatconnect/pkg/repository"
	"github.com/flatconnect/flatconnect/pkg/utils/logging"
)

// PipelineState tells the caller whether the triage pipeline was started for
// a freshly created issue. A failed enqueue does not fail the creation.
type PipelineState string

const (
	PipelineQueued PipelineState = "queued"
	PipelineFailed PipelineState = "failed"
)

// IssueUseCase covers the reporting workflow: creation, pipeline triggers,
// status changes and assignment.
type IssueUseCase struct {
	repo     interfaces.Repository
	enqueuer interfaces.StageEnqueuer
}

func NewIssueUseCase(repo interfaces.Repository, enqueuer interfaces.StageEnqueuer) *IssueUseCase {
	return &IssueUseCase{
		repo:     repo,
		enqueuer: enqueuer,
	}
}

// CreateIssueInput is the reporter-supplied part of a new issue.
type CreateIssueInput struct {
	Title         string
	Description   string
	Latitude      *float64
	Longitude     *float64
	EstimatedCost *float64
}

func (in *CreateIssueInput) validate() error {
	if in.Title == "" {
		return goerr.Wrap(ErrTitleRequired, "invalid issue input")
	}
	if in.Description == "" {
		return goerr.Wrap(ErrDescriptionRequired, "invalid issue input")
	}
	return nil
}

// CreateIssue persists a new issue for the reporter and enqueues the intake
// stage. The returned PipelineState is "failed" when the dispatcher could not
// accept the task; the issue itself is still created.
func (uc *IssueUseCase) CreateIssue(ctx context.Context, identity *auth.Identity, input *CreateIssueInput) (*model.Issue, PipelineState, error) {
	if err := input.validate(); err != nil {
		return nil, "", err
	}

	issue, err := uc.repo.Issue().Create(ctx, &model.Issue{
		Title:         input.Title,
		Description:   input.Description,
		ReporterID:    identity.Sub,
		Latitude:      input.Latitude,
		Longitude:     input.Longitude,
		EstimatedCost: input.EstimatedCost,
	})
	if err != nil {
		return nil, "", goerr.Wrap(err, "failed to create issue")
	}

	state := PipelineQueued
	if err := uc.enqueueIntake(ctx, issue.ID); err != nil {
		logging.From(ctx).Warn("issue created but pipeline not started",
			"issue_id", issue.ID.String(),
			"error", err)
		state = PipelineFailed
	}

	return issue, state, nil
}

// StartPipeline re-enqueues intake for an issue. Only the reporter may
// trigger a run of their own issue.
func (uc *IssueUseCase) StartPipeline(ctx context.Context, identity *auth.Identity, issueID types.IssueID) error {
	issue, err := uc.getIssue(ctx, issueID)
	if err != nil {
		return err
	}

	if issue.ReporterID != identity.Sub {
		return goerr.Wrap(ErrPermissionDenied, "only the reporter can start the pipeline",
			goerr.V("issue_id", issueID))
	}

	if err := uc.enqueueIntake(ctx, issueID); err != nil {
		return goerr.Wrap(err, "failed to start pipeline", goerr.V("issue_id", issueID))
	}

	return nil
}

func (uc *IssueUseCase) enqueueIntake(ctx context.Context, issueID types.IssueID) error {
	if uc.enqueuer == nil {
		return goerr.New("no dispatcher configured")
	}
	return uc.enqueuer.Enqueue(ctx, types.StageIntake, issueID)
}

// UpdateStatus sets the issue status and notifies the reporter. Transition to
// resolved stamps ResolvedAt; re-resolving keeps the first timestamp.
func (uc *IssueUseCase) UpdateStatus(ctx context.Context, identity *auth.Identity, issueID types.IssueID, status string) (*model.Issue, error) {
	parsed, err := types.ParseIssueStatus(status)
	if err != nil {
		return nil, goerr.Wrap(ErrInvalidStatus, "cannot update status", goerr.V("status", status))
	}

	issue, err := uc.getIssue(ctx, issueID)
	if err != nil {
		return nil, err
	}

	if !canTouchIssue(identity, issue) {
		return nil, goerr.Wrap(ErrPermissionDenied, "cannot update status", goerr.V("issue_id", issueID))
	}

	issue.Status = parsed
	if parsed == types.IssueStatusResolved {
		issue.MarkResolved(time.Now())
	}

	updated, err := uc.repo.Issue().Update(ctx, issue)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update issue", goerr.V("issue_id", issueID))
	}

	notificationType := types.NotificationIssueUpdated
	if parsed == types.IssueStatusResolved {
		notificationType = types.NotificationIssueResolved
	}
	uc.notify(ctx, &model.Notification{
		UserID:  issue.ReporterID,
		IssueID: &issue.ID,
		Message: fmt.Sprintf("Your issue %q is now %s", issue.Title, parsed),
		Type:    notificationType,
	})

	return updated, nil
}

// AssignmentResult summarizes a completed assignment for the caller.
type AssignmentResult struct {
	Issue      *model.Issue
	WorkerName string
	WorkerRole types.Role
}

// AssignIssue routes an issue to a worker. Privileged callers only; the
// target must exist and hold an assignable role. Notifies both the worker and
// the reporter.
func (uc *IssueUseCase) AssignIssue(ctx context.Context, identity *auth.Identity, issueID types.IssueID, workerID types.UserID, status string) (*AssignmentResult, error) {
	if !identity.IsPrivileged() {
		return nil, goerr.Wrap(ErrPermissionDenied, "assignment requires a privileged role",
			goerr.V("role", identity.Role))
	}
	if workerID == "" {
		return nil, goerr.Wrap(ErrWorkerRequired, "cannot assign issue")
	}

	newStatus := types.IssueStatusAssigned
	if status != "" {
		parsed, err := types.ParseIssueStatus(status)
		if err != nil {
			return nil, goerr.Wrap(ErrInvalidStatus, "cannot assign issue", goerr.V("status", status))
		}
		newStatus = parsed
	}

	issue, err := uc.getIssue(ctx, issueID)
	if err != nil {
		return nil, err
	}

	worker, err := uc.repo.User().Get(ctx, workerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, goerr.Wrap(ErrWorkerNotFound, "cannot assign issue", goerr.V("worker_id", workerID))
		}
		return nil, goerr.Wrap(err, "failed to load worker", goerr.V("worker_id", workerID))
	}
	if !worker.Role.Assignable() {
		return nil, goerr.Wrap(ErrWorkerNotAssignable, "cannot assign issue",
			goerr.V("worker_id", workerID),
			goerr.V("role", worker.Role),
		)
	}

	started := time.Now()
	issue.AssignedTo = &worker.ID
	issue.Status = newStatus

	updated, err := uc.repo.Issue().Update(ctx, issue)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update issue", goerr.V("issue_id", issueID))
	}

	if _, err := uc.repo.AgentAction().Create(ctx, &model.AgentAction{
		IssueID:   issue.ID,
		AgentType: types.AgentTypeAssignment,
		Action:    "assign_issue",
		Input: map[string]any{
			"worker_id":   worker.ID.String(),
			"assigned_by": identity.Sub.String(),
		},
		Output: map[string]any{
			"worker": worker.Name(),
			"status": newStatus.String(),
		},
		ProcessingTime: time.Since(started).Seconds(),
	}); err != nil {
		return nil, goerr.Wrap(err, "failed to record assignment", goerr.V("issue_id", issueID))
	}

	uc.notify(ctx, &model.Notification{
		UserID:  worker.ID,
		IssueID: &issue.ID,
		Message: fmt.Sprintf("You have been assigned to issue %q", issue.Title),
		Type:    types.NotificationIssueAssigned,
	})
	uc.notify(ctx, &model.Notification{
		UserID:  issue.ReporterID,
		IssueID: &issue.ID,
		Message: fmt.Sprintf("Your issue %q has been assigned to %s", issue.Title, worker.Name()),
		Type:    types.NotificationIssueUpdated,
	})

	return &AssignmentResult{
		Issue:      updated,
		WorkerName: worker.Name(),
		WorkerRole: worker.Role,
	}, nil
}

// GetIssue returns one issue. Members can only see issues they reported or
// are assigned to.
func (uc *IssueUseCase) GetIssue(ctx context.Context, identity *auth.Identity, issueID types.IssueID) (*model.Issue, error) {
	issue, err := uc.getIssue(ctx, issueID)
	if err != nil {
		return nil, err
	}

	if !canTouchIssue(identity, issue) {
		return nil, goerr.Wrap(ErrPermissionDenied, "cannot view issue", goerr.V("issue_id", issueID))
	}

	return issue, nil
}

// ListIssues returns all issues for staff, own issues for members.
func (uc *IssueUseCase) ListIssues(ctx context.Context, identity *auth.Identity) ([]*model.Issue, error) {
	if identity.IsPrivileged() {
		issues, err := uc.repo.Issue().List(ctx)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list issues")
		}
		return issues, nil
	}
	return uc.MyIssues(ctx, identity)
}

// MyIssues returns the issues the caller reported.
func (uc *IssueUseCase) MyIssues(ctx context.Context, identity *auth.Identity) ([]*model.Issue, error) {
	issues, err := uc.repo.Issue().ListByReporter(ctx, identity.Sub)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list reported issues")
	}
	return issues, nil
}

// AssignedIssues returns the issues assigned to the caller. Assignable roles
// only.
func (uc *IssueUseCase) AssignedIssues(ctx context.Context, identity *auth.Identity) ([]*model.Issue, error) {
	if !identity.Role.Assignable() {
		return nil, goerr.Wrap(ErrPermissionDenied, "no assigned issues for this role",
			goerr.V("role", identity.Role))
	}
	issues, err := uc.repo.Issue().ListByAssignee(ctx, identity.Sub)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list assigned issues")
	}
	return issues, nil
}

// ListWorkers returns the users an issue can be assigned to. Privileged
// callers only.
func (uc *IssueUseCase) ListWorkers(ctx context.Context, identity *auth.Identity) ([]*model.User, error) {
	if !identity.IsPrivileged() {
		return nil, goerr.Wrap(ErrPermissionDenied, "listing workers requires a privileged role",
			goerr.V("role", identity.Role))
	}
	workers, err := uc.repo.User().ListByRoles(ctx, types.RoleWorker, types.RoleAdmin)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list workers")
	}
	return workers, nil
}

// ListCategories returns all known categories in creation order.
func (uc *IssueUseCase) ListCategories(ctx context.Context) ([]*model.Category, error) {
	categories, err := uc.repo.Category().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list categories")
	}
	return categories, nil
}

// ListActions returns the audit trail of an issue.
func (uc *IssueUseCase) ListActions(ctx context.Context, identity *auth.Identity, issueID types.IssueID) ([]*model.AgentAction, error) {
	issue, err := uc.getIssue(ctx, issueID)
	if err != nil {
		return nil, err
	}
	if !canTouchIssue(identity, issue) {
		return nil, goerr.Wrap(ErrPermissionDenied, "cannot view issue actions", goerr.V("issue_id", issueID))
	}

	actions, err := uc.repo.AgentAction().ListByIssue(ctx, issueID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list agent actions", goerr.V("issue_id", issueID))
	}
	return actions, nil
}

// DeleteIssue removes an issue with its audit trail and linked notifications.
// Privileged callers only.
func (uc *IssueUseCase) DeleteIssue(ctx context.Context, identity *auth.Identity, issueID types.IssueID) error {
	if !identity.IsPrivileged() {
		return goerr.Wrap(ErrPermissionDenied, "deleting issues requires a privileged role",
			goerr.V("role", identity.Role))
	}

	if _, err := uc.getIssue(ctx, issueID); err != nil {
		return err
	}

	if err := uc.repo.AgentAction().DeleteByIssue(ctx, issueID); err != nil {
		return goerr.Wrap(err, "failed to delete agent actions", goerr.V("issue_id", issueID))
	}
	if err := uc.repo.Notification().DeleteByIssue(ctx, issueID); err != nil {
		return goerr.Wrap(err, "failed to delete notifications", goerr.V("issue_id", issueID))
	}
	if err := uc.repo.Issue().Delete(ctx, issueID); err != nil {
		return goerr.Wrap(err, "failed to delete issue", goerr.V("issue_id", issueID))
	}

	return nil
}

func (uc *IssueUseCase) getIssue(ctx context.Context, issueID types.IssueID) (*model.Issue, error) {
	issue, err := uc.repo.Issue().Get(ctx, issueID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, goerr.Wrap(ErrIssueNotFound, "issue lookup failed", goerr.V("issue_id", issueID))
		}
		return nil, goerr.Wrap(err, "failed to get issue", goerr.V("issue_id", issueID))
	}
	return issue, nil
}

// notify records a notification on a best-effort basis. A notification write
// failure never rolls back the operation that caused it.
func (uc *IssueUseCase) notify(ctx context.Context, notification *model.Notification) {
	if _, err := uc.repo.Notification().Create(ctx, notification); err != nil {
		logging.From(ctx).Error("failed to create notification",
			"user_id", notification.UserID.String(),
			"error", err)
	}
}

// canTouchIssue reports whether the identity may read or update the issue:
// staff, the reporter, or the assigned worker.
func canTouchIssue(identity *auth.Identity, issue *model.Issue) bool {
	if identity.IsPrivileged() {
		return true
	}
	if issue.ReporterID == identity.Sub {
		return true
	}
	return issue.AssignedTo != nil && *issue.AssignedTo == identity.Sub
}
