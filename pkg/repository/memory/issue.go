package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/flatconnect/flatconnect/pkg/domain/model"
	"github.com/flatconnect/flatconnect/pkg/domain/types"
)

type issueRepository struct {
	mu     sync.RWMutex
	issues map[types.IssueID]*model.Issue
}

func newIssueRepository() *issueRepository {
	return &issueRepository{
		issues: make(map[types.IssueID]*model.Issue),
	}
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	f := *v
	return &f
}

func copyTime(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	t := *v
	return &t
}

// copyIssue creates a deep copy of an issue
func copyIssue(i *model.Issue) *model.Issue {
	copied := &model.Issue{
		ID:                    i.ID,
		Title:                 i.Title,
		Description:           i.Description,
		DescriptionTranslated: i.DescriptionTranslated,
		Language:              i.Language,
		Priority:              i.Priority,
		Status:                i.Status,
		ReporterID:            i.ReporterID,
		Latitude:              copyFloat(i.Latitude),
		Longitude:             copyFloat(i.Longitude),
		EstimatedCost:         copyFloat(i.EstimatedCost),
		CreatedAt:             i.CreatedAt,
		UpdatedAt:             i.UpdatedAt,
		ResolvedAt:            copyTime(i.ResolvedAt),
	}
	if i.CategoryID != nil {
		cid := *i.CategoryID
		copied.CategoryID = &cid
	}
	if i.AssignedTo != nil {
		uid := *i.AssignedTo
		copied.AssignedTo = &uid
	}
	return copied
}

func (r *issueRepository) Create(ctx context.Context, issue *model.Issue) (*model.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := copyIssue(issue)
	if created.ID == "" {
		created.ID = types.NewIssueID()
	}
	if created.Status == "" {
		created.Status = types.IssueStatusNew
	}
	if created.Priority == 0 {
		created.Priority = types.PriorityLow
	}
	created.CreatedAt = now
	created.UpdatedAt = now

	r.issues[created.ID] = created
	return copyIssue(created), nil
}

func (r *issueRepository) Get(ctx context.Context, id types.IssueID) (*model.Issue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	issue, exists := r.issues[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "issue not found", goerr.V("id", id))
	}

	return copyIssue(issue), nil
}

func (r *issueRepository) Update(ctx context.Context, issue *model.Issue) (*model.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.issues[issue.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "issue not found", goerr.V("id", issue.ID))
	}

	updated := copyIssue(issue)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.issues[issue.ID] = updated
	return copyIssue(updated), nil
}

func (r *issueRepository) Delete(ctx context.Context, id types.IssueID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.issues[id]; !exists {
		return goerr.Wrap(ErrNotFound, "issue not found", goerr.V("id", id))
	}

	delete(r.issues, id)
	return nil
}

func (r *issueRepository) List(ctx context.Context) ([]*model.Issue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(*model.Issue) bool { return true }), nil
}

func (r *issueRepository) ListByReporter(ctx context.Context, reporterID types.UserID) ([]*model.Issue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(i *model.Issue) bool { return i.ReporterID == reporterID }), nil
}

func (r *issueRepository) ListByAssignee(ctx context.Context, workerID types.UserID) ([]*model.Issue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(i *model.Issue) bool {
		return i.AssignedTo != nil && *i.AssignedTo == workerID
	}), nil
}

// collect returns matching issues newest first. Caller must hold the lock.
func (r *issueRepository) collect(match func(*model.Issue) bool) []*model.Issue {
	result := make([]*model.Issue, 0, len(r.issues))
	for _, issue := range r.issues {
		if match(issue) {
			result = append(result, copyIssue(issue))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result
}
