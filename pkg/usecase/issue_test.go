package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/flatconnect/flatconnect/pkg/domain/interfaces"
	"github.com/flatconnect/flatconnect/pkg/domain/model"
	"github.com/flatconnect/flatconnect/pkg/domain/model/auth"
	"github.com/flatconnect/flatconnect/pkg/domain/types"
	"github.com/flatconnect/flatconnect/pkg/repository/memory"
	"github.com/flatconnect/flatconnect/pkg/usecase"
)

type enqueueCall struct {
	stage   types.Stage
	issueID types.IssueID
}

// recordingEnqueuer captures Enqueue calls and optionally fails them.
type recordingEnqueuer struct {
	calls []enqueueCall
	err   error
}

func (e *recordingEnqueuer) Enqueue(ctx context.Context, stage types.Stage, issueID types.IssueID) error {
	if e.err != nil {
		return e.err
	}
	e.calls = append(e.calls, enqueueCall{stage: stage, issueID: issueID})
	return nil
}

func createUser(t *testing.T, repo interfaces.Repository, email string, role types.Role) *model.User {
	t.Helper()
	user, err := repo.User().Create(context.Background(), &model.User{
		Email:       email,
		DisplayName: email,
		Role:        role,
	})
	gt.NoError(t, err).Required()
	return user
}

func identityOf(user *model.User) *auth.Identity {
	return &auth.Identity{
		Sub:   user.ID,
		Email: user.Email,
		Name:  user.Name(),
		Role:  user.Role,
	}
}

func TestCreateIssue(t *testing.T) {
	t.Run("creates issue and queues the pipeline", func(t *testing.T) {
		repo := memory.New()
		enqueuer := &recordingEnqueuer{}
		uc := usecase.New(repo, usecase.WithEnqueuer(enqueuer))
		reporter := identityOf(createUser(t, repo, "reporter@example.com", types.RoleMember))

		issue, state, err := uc.Issue.CreateIssue(context.Background(), reporter, &usecase.CreateIssueInput{
			Title:       "Leak",
			Description: "water everywhere",
		})
		gt.NoError(t, err).Required()

		gt.Value(t, state).Equal(usecase.PipelineQueued)
		gt.Value(t, issue.ReporterID).Equal(reporter.Sub)
		gt.Value(t, issue.Status).Equal(types.IssueStatusNew)

		gt.Array(t, enqueuer.calls).Length(1)
		gt.Value(t, enqueuer.calls[0].stage).Equal(types.StageIntake)
		gt.Value(t, enqueuer.calls[0].issueID).Equal(issue.ID)
	})

	t.Run("rejects empty title and description", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo, usecase.WithEnqueuer(&recordingEnqueuer{}))
		reporter := identityOf(createUser(t, repo, "reporter@example.com", types.RoleMember))

		_, _, err := uc.Issue.CreateIssue(context.Background(), reporter, &usecase.CreateIssueInput{
			Description: "water everywhere",
		})
		gt.Bool(t, errors.Is(err, usecase.ErrTitleRequired)).True()

		_, _, err = uc.Issue.CreateIssue(context.Background(), reporter, &usecase.CreateIssueInput{
			Title: "Leak",
		})
		gt.Bool(t, errors.Is(err, usecase.ErrDescriptionRequired)).True()

		issues, err := repo.Issue().List(context.Background())
		gt.NoError(t, err).Required()
		gt.Array(t, issues).Length(0)
	})

	t.Run("enqueue failure does not fail creation", func(t *testing.T) {
		repo := memory.New()
		enqueuer := &recordingEnqueuer{err: goerr.New("queue is full")}
		uc := usecase.New(repo, usecase.WithEnqueuer(enqueuer))
		reporter := identityOf(createUser(t, repo, "reporter@example.com", types.RoleMember))

		issue, state, err := uc.Issue.CreateIssue(context.Background(), reporter, &usecase.CreateIssueInput{
			Title:       "Leak",
			Description: "water everywhere",
		})
		gt.NoError(t, err).Required()
		gt.Value(t, state).Equal(usecase.PipelineFailed)

		persisted, err := repo.Issue().Get(context.Background(), issue.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, persisted.Title).Equal("Leak")
	})

	t.Run("missing dispatcher degrades to failed", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo)
		reporter := identityOf(createUser(t, repo, "reporter@example.com", types.RoleMember))

		_, state, err := uc.Issue.CreateIssue(context.Background(), reporter, &usecase.CreateIssueInput{
			Title:       "Leak",
			Description: "water everywhere",
		})
		gt.NoError(t, err).Required()
		gt.Value(t, state).Equal(usecase.PipelineFailed)
	})
}

func TestStartPipeline(t *testing.T) {
	repo := memory.New()
	enqueuer := &recordingEnqueuer{}
	uc := usecase.New(repo, usecase.WithEnqueuer(enqueuer))
	reporter := identityOf(createUser(t, repo, "reporter@example.com", types.RoleMember))
	other := identityOf(createUser(t, repo, "other@example.com", types.RoleMember))

	issue, _, err := uc.Issue.CreateIssue(context.Background(), reporter, &usecase.CreateIssueInput{
		Title:       "Leak",
		Description: "water everywhere",
	})
	gt.NoError(t, err).Required()
	enqueuer.calls = nil

	t.Run("only the reporter can trigger", func(t *testing.T) {
		err := uc.Issue.StartPipeline(context.Background(), other, issue.ID)
		gt.Bool(t, errors.Is(err, usecase.ErrPermissionDenied)).True()
		gt.Array(t, enqueuer.calls).Length(0)
	})

	t.Run("reporter re-enqueues intake", func(t *testing.T) {
		gt.NoError(t, uc.Issue.StartPipeline(context.Background(), reporter, issue.ID)).Required()
		gt.Array(t, enqueuer.calls).Length(1)
		gt.Value(t, enqueuer.calls[0].stage).Equal(types.StageIntake)
	})

	t.Run("unknown issue", func(t *testing.T) {
		err := uc.Issue.StartPipeline(context.Background(), reporter, types.NewIssueID())
		gt.Bool(t, errors.Is(err, usecase.ErrIssueNotFound)).True()
	})
}

func TestUpdateStatus(t *testing.T) {
	setup := func(t *testing.T) (*usecase.UseCases, interfaces.Repository, *auth.Identity, *model.Issue) {
		t.Helper()
		repo := memory.New()
		uc := usecase.New(repo, usecase.WithEnqueuer(&recordingEnqueuer{}))
		reporter := identityOf(createUser(t, repo, "reporter@example.com", types.RoleMember))
		issue, _, err := uc.Issue.CreateIssue(context.Background(), reporter, &usecase.CreateIssueInput{
			Title:       "Leak",
			Description: "water everywhere",
		})
		gt.NoError(t, err).Required()
		return uc, repo, reporter, issue
	}

	t.Run("invalid status is rejected", func(t *testing.T) {
		uc, _, reporter, issue := setup(t)
		_, err := uc.Issue.UpdateStatus(context.Background(), reporter, issue.ID, "exploded")
		gt.Bool(t, errors.Is(err, usecase.ErrInvalidStatus)).True()
	})

	t.Run("resolving stamps resolved_at once", func(t *testing.T) {
		uc, _, reporter, issue := setup(t)
		ctx := context.Background()

		resolved, err := uc.Issue.UpdateStatus(ctx, reporter, issue.ID, "resolved")
		gt.NoError(t, err).Required()
		gt.Value(t, resolved.ResolvedAt).NotNil()
		first := *resolved.ResolvedAt

		_, err = uc.Issue.UpdateStatus(ctx, reporter, issue.ID, "in_progress")
		gt.NoError(t, err).Required()

		again, err := uc.Issue.UpdateStatus(ctx, reporter, issue.ID, "resolved")
		gt.NoError(t, err).Required()
		gt.Value(t, again.ResolvedAt).NotNil()
		gt.Bool(t, again.ResolvedAt.Equal(first)).True()
	})

	t.Run("reporter is notified once per change", func(t *testing.T) {
		uc, repo, reporter, issue := setup(t)
		ctx := context.Background()

		_, err := uc.Issue.UpdateStatus(ctx, reporter, issue.ID, "in_progress")
		gt.NoError(t, err).Required()

		notifications, err := repo.Notification().ListByUser(ctx, reporter.Sub)
		gt.NoError(t, err).Required()
		gt.Array(t, notifications).Length(1)
		gt.Value(t, notifications[0].Type).Equal(types.NotificationIssueUpdated)

		_, err = uc.Issue.UpdateStatus(ctx, reporter, issue.ID, "resolved")
		gt.NoError(t, err).Required()

		notifications, err = repo.Notification().ListByUser(ctx, reporter.Sub)
		gt.NoError(t, err).Required()
		gt.Array(t, notifications).Length(2)
	})

	t.Run("unrelated member cannot update", func(t *testing.T) {
		uc, repo, _, issue := setup(t)
		stranger := identityOf(createUser(t, repo, "stranger@example.com", types.RoleMember))

		_, err := uc.Issue.UpdateStatus(context.Background(), stranger, issue.ID, "closed")
		gt.Bool(t, errors.Is(err, usecase.ErrPermissionDenied)).True()

		persisted, err := repo.Issue().Get(context.Background(), issue.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, persisted.Status).Equal(types.IssueStatusNew)
	})
}

func TestAssignIssue(t *testing.T) {
	setup := func(t *testing.T) (*usecase.UseCases, interfaces.Repository, *auth.Identity, *model.User, *model.Issue) {
		t.Helper()
		repo := memory.New()
		uc := usecase.New(repo, usecase.WithEnqueuer(&recordingEnqueuer{}))
		reporter := identityOf(createUser(t, repo, "reporter@example.com", types.RoleMember))
		worker := createUser(t, repo, "worker@example.com", types.RoleWorker)
		secretary := identityOf(createUser(t, repo, "secretary@example.com", types.RoleSecretary))
		issue, _, err := uc.Issue.CreateIssue(context.Background(), reporter, &usecase.CreateIssueInput{
			Title:       "Leak",
			Description: "water everywhere",
		})
		gt.NoError(t, err).Required()
		return uc, repo, secretary, worker, issue
	}

	t.Run("assigns worker and notifies both parties", func(t *testing.T) {
		uc, repo, secretary, worker, issue := setup(t)
		ctx := context.Background()

		result, err := uc.Issue.AssignIssue(ctx, secretary, issue.ID, worker.ID, "")
		gt.NoError(t, err).Required()

		gt.Value(t, result.WorkerName).Equal(worker.Name())
		gt.Value(t, result.WorkerRole).Equal(types.RoleWorker)
		gt.Value(t, result.Issue.Status).Equal(types.IssueStatusAssigned)
		gt.Value(t, result.Issue.AssignedTo).NotNil()
		gt.Value(t, *result.Issue.AssignedTo).Equal(worker.ID)

		workerNotes, err := repo.Notification().ListByUser(ctx, worker.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, workerNotes).Length(1)
		gt.Value(t, workerNotes[0].Type).Equal(types.NotificationIssueAssigned)

		reporterNotes, err := repo.Notification().ListByUser(ctx, issue.ReporterID)
		gt.NoError(t, err).Required()
		gt.Array(t, reporterNotes).Length(1)
		gt.Value(t, reporterNotes[0].Type).Equal(types.NotificationIssueUpdated)

		actions, err := repo.AgentAction().ListByIssue(ctx, issue.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, actions).Length(1)
		gt.Value(t, actions[0].AgentType).Equal(types.AgentTypeAssignment)
	})

	t.Run("member actor is rejected before mutation", func(t *testing.T) {
		uc, repo, _, worker, issue := setup(t)
		member := identityOf(createUser(t, repo, "member@example.com", types.RoleMember))

		_, err := uc.Issue.AssignIssue(context.Background(), member, issue.ID, worker.ID, "")
		gt.Bool(t, errors.Is(err, usecase.ErrPermissionDenied)).True()

		persisted, err := repo.Issue().Get(context.Background(), issue.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, persisted.AssignedTo).Nil()
		gt.Value(t, persisted.Status).Equal(types.IssueStatusNew)
	})

	t.Run("worker id is required", func(t *testing.T) {
		uc, _, secretary, _, issue := setup(t)
		_, err := uc.Issue.AssignIssue(context.Background(), secretary, issue.ID, "", "")
		gt.Bool(t, errors.Is(err, usecase.ErrWorkerRequired)).True()
	})

	t.Run("unknown worker", func(t *testing.T) {
		uc, _, secretary, _, issue := setup(t)
		_, err := uc.Issue.AssignIssue(context.Background(), secretary, issue.ID, types.NewUserID(), "")
		gt.Bool(t, errors.Is(err, usecase.ErrWorkerNotFound)).True()
	})

	t.Run("member role cannot be assigned", func(t *testing.T) {
		uc, repo, secretary, _, issue := setup(t)
		member := createUser(t, repo, "plain@example.com", types.RoleMember)

		_, err := uc.Issue.AssignIssue(context.Background(), secretary, issue.ID, member.ID, "")
		gt.Bool(t, errors.Is(err, usecase.ErrWorkerNotAssignable)).True()

		persisted, err := repo.Issue().Get(context.Background(), issue.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, persisted.AssignedTo).Nil()
	})

	t.Run("invalid status", func(t *testing.T) {
		uc, _, secretary, worker, issue := setup(t)
		_, err := uc.Issue.AssignIssue(context.Background(), secretary, issue.ID, worker.ID, "exploded")
		gt.Bool(t, errors.Is(err, usecase.ErrInvalidStatus)).True()
	})
}

func TestIssueListing(t *testing.T) {
	repo := memory.New()
	uc := usecase.New(repo, usecase.WithEnqueuer(&recordingEnqueuer{}))
	ctx := context.Background()

	reporter := identityOf(createUser(t, repo, "reporter@example.com", types.RoleMember))
	other := identityOf(createUser(t, repo, "other@example.com", types.RoleMember))
	worker := createUser(t, repo, "worker@example.com", types.RoleWorker)
	admin := identityOf(createUser(t, repo, "admin@example.com", types.RoleAdmin))

	mine, _, err := uc.Issue.CreateIssue(ctx, reporter, &usecase.CreateIssueInput{Title: "Mine", Description: "x"})
	gt.NoError(t, err).Required()
	_, _, err = uc.Issue.CreateIssue(ctx, other, &usecase.CreateIssueInput{Title: "Theirs", Description: "y"})
	gt.NoError(t, err).Required()

	_, err = uc.Issue.AssignIssue(ctx, admin, mine.ID, worker.ID, "")
	gt.NoError(t, err).Required()

	t.Run("staff see all issues", func(t *testing.T) {
		issues, err := uc.Issue.ListIssues(ctx, admin)
		gt.NoError(t, err).Required()
		gt.Array(t, issues).Length(2)
	})

	t.Run("members see their own issues", func(t *testing.T) {
		issues, err := uc.Issue.ListIssues(ctx, reporter)
		gt.NoError(t, err).Required()
		gt.Array(t, issues).Length(1)
		gt.Value(t, issues[0].Title).Equal("Mine")
	})

	t.Run("workers list their assignments", func(t *testing.T) {
		issues, err := uc.Issue.AssignedIssues(ctx, identityOf(worker))
		gt.NoError(t, err).Required()
		gt.Array(t, issues).Length(1)
		gt.Value(t, issues[0].Title).Equal("Mine")
	})

	t.Run("members have no assignment list", func(t *testing.T) {
		_, err := uc.Issue.AssignedIssues(ctx, reporter)
		gt.Bool(t, errors.Is(err, usecase.ErrPermissionDenied)).True()
	})

	t.Run("workers listing is privileged", func(t *testing.T) {
		_, err := uc.Issue.ListWorkers(ctx, reporter)
		gt.Bool(t, errors.Is(err, usecase.ErrPermissionDenied)).True()

		workers, err := uc.Issue.ListWorkers(ctx, admin)
		gt.NoError(t, err).Required()
		for _, w := range workers {
			gt.Bool(t, w.Role.Assignable()).True()
		}
	})

	t.Run("member cannot view another member's issue", func(t *testing.T) {
		_, err := uc.Issue.GetIssue(ctx, other, mine.ID)
		gt.Bool(t, errors.Is(err, usecase.ErrPermissionDenied)).True()
	})
}

func TestDeleteIssue(t *testing.T) {
	repo := memory.New()
	uc := usecase.New(repo, usecase.WithEnqueuer(&recordingEnqueuer{}))
	ctx := context.Background()

	reporter := identityOf(createUser(t, repo, "reporter@example.com", types.RoleMember))
	worker := createUser(t, repo, "worker@example.com", types.RoleWorker)
	admin := identityOf(createUser(t, repo, "admin@example.com", types.RoleAdmin))

	issue, _, err := uc.Issue.CreateIssue(ctx, reporter, &usecase.CreateIssueInput{Title: "Leak", Description: "x"})
	gt.NoError(t, err).Required()
	_, err = uc.Issue.AssignIssue(ctx, admin, issue.ID, worker.ID, "")
	gt.NoError(t, err).Required()

	t.Run("members cannot delete", func(t *testing.T) {
		err := uc.Issue.DeleteIssue(ctx, reporter, issue.ID)
		gt.Bool(t, errors.Is(err, usecase.ErrPermissionDenied)).True()
	})

	t.Run("delete cascades to actions and notifications", func(t *testing.T) {
		gt.NoError(t, uc.Issue.DeleteIssue(ctx, admin, issue.ID)).Required()

		_, err := repo.Issue().Get(ctx, issue.ID)
		gt.Value(t, err).NotNil()

		actions, err := repo.AgentAction().ListByIssue(ctx, issue.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, actions).Length(0)

		notifications, err := repo.Notification().ListByUser(ctx, worker.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, notifications).Length(0)
	})
}
