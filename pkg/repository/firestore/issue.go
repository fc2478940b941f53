package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/flatconnect/flatconnect/pkg/domain/model"
	"github.com/flatconnect/flatconnect/pkg/domain/types"
)

type issueRepository struct {
	client *firestore.Client
}

// issueDoc is the Firestore document shape of an Issue
type issueDoc struct {
	ID                    string     `firestore:"id"`
	Title                 string     `firestore:"title"`
	Description           string     `firestore:"description"`
	DescriptionTranslated string     `firestore:"description_translated"`
	Language              string     `firestore:"language"`
	CategoryID            *string    `firestore:"category_id"`
	Priority              int        `firestore:"priority"`
	Status                string     `firestore:"status"`
	ReporterID            string     `firestore:"reporter_id"`
	AssignedTo            *string    `firestore:"assigned_to"`
	Latitude              *float64   `firestore:"latitude"`
	Longitude             *float64   `firestore:"longitude"`
	EstimatedCost         *float64   `firestore:"estimated_cost"`
	CreatedAt             time.Time  `firestore:"created_at"`
	UpdatedAt             time.Time  `firestore:"updated_at"`
	ResolvedAt            *time.Time `firestore:"resolved_at"`
}

func toIssueDoc(i *model.Issue) *issueDoc {
	doc := &issueDoc{
		ID:                    i.ID.String(),
		Title:                 i.Title,
		Description:           i.Description,
		DescriptionTranslated: i.DescriptionTranslated,
		Language:              i.Language.String(),
		Priority:              int(i.Priority),
		Status:                i.Status.String(),
		ReporterID:            i.ReporterID.String(),
		Latitude:              i.Latitude,
		Longitude:             i.Longitude,
		EstimatedCost:         i.EstimatedCost,
		CreatedAt:             i.CreatedAt,
		UpdatedAt:             i.UpdatedAt,
		ResolvedAt:            i.ResolvedAt,
	}
	if i.CategoryID != nil {
		s := i.CategoryID.String()
		doc.CategoryID = &s
	}
	if i.AssignedTo != nil {
		s := i.AssignedTo.String()
		doc.AssignedTo = &s
	}
	return doc
}

func (d *issueDoc) toModel() *model.Issue {
	issue := &model.Issue{
		ID:                    types.IssueID(d.ID),
		Title:                 d.Title,
		Description:           d.Description,
		DescriptionTranslated: d.DescriptionTranslated,
		Language:              types.Language(d.Language),
		Priority:              types.Priority(d.Priority),
		Status:                types.IssueStatus(d.Status),
		ReporterID:            types.UserID(d.ReporterID),
		Latitude:              d.Latitude,
		Longitude:             d.Longitude,
		EstimatedCost:         d.EstimatedCost,
		CreatedAt:             d.CreatedAt,
		UpdatedAt:             d.UpdatedAt,
		ResolvedAt:            d.ResolvedAt,
	}
	if d.CategoryID != nil {
		cid := types.CategoryID(*d.CategoryID)
		issue.CategoryID = &cid
	}
	if d.AssignedTo != nil {
		uid := types.UserID(*d.AssignedTo)
		issue.AssignedTo = &uid
	}
	return issue
}

func (r *issueRepository) Create(ctx context.Context, issue *model.Issue) (*model.Issue, error) {
	now := time.Now().UTC()
	created := *issue
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

	doc := r.client.Collection(collectionIssues).Doc(created.ID.String())
	if _, err := doc.Set(ctx, toIssueDoc(&created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create issue", goerr.V("id", created.ID))
	}

	return &created, nil
}

func (r *issueRepository) Get(ctx context.Context, id types.IssueID) (*model.Issue, error) {
	snap, err := r.client.Collection(collectionIssues).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "issue not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get issue", goerr.V("id", id))
	}

	var doc issueDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode issue", goerr.V("id", id))
	}

	return doc.toModel(), nil
}

func (r *issueRepository) Update(ctx context.Context, issue *model.Issue) (*model.Issue, error) {
	existing, err := r.Get(ctx, issue.ID)
	if err != nil {
		return nil, err
	}

	updated := *issue
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	doc := r.client.Collection(collectionIssues).Doc(issue.ID.String())
	if _, err := doc.Set(ctx, toIssueDoc(&updated)); err != nil {
		return nil, goerr.Wrap(err, "failed to update issue", goerr.V("id", issue.ID))
	}

	return &updated, nil
}

func (r *issueRepository) Delete(ctx context.Context, id types.IssueID) error {
	if _, err := r.Get(ctx, id); err != nil {
		return err
	}

	if _, err := r.client.Collection(collectionIssues).Doc(id.String()).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete issue", goerr.V("id", id))
	}

	return nil
}

func (r *issueRepository) List(ctx context.Context) ([]*model.Issue, error) {
	query := r.client.Collection(collectionIssues).
		OrderBy("created_at", firestore.Desc)
	return r.queryIssues(ctx, query)
}

func (r *issueRepository) ListByReporter(ctx context.Context, reporterID types.UserID) ([]*model.Issue, error) {
	query := r.client.Collection(collectionIssues).
		Where("reporter_id", "==", reporterID.String()).
		OrderBy("created_at", firestore.Desc)
	return r.queryIssues(ctx, query)
}

func (r *issueRepository) ListByAssignee(ctx context.Context, workerID types.UserID) ([]*model.Issue, error) {
	query := r.client.Collection(collectionIssues).
		Where("assigned_to", "==", workerID.String()).
		OrderBy("created_at", firestore.Desc)
	return r.queryIssues(ctx, query)
}

func (r *issueRepository) queryIssues(ctx context.Context, query firestore.Query) ([]*model.Issue, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	var result []*model.Issue
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate issues")
		}

		var doc issueDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode issue")
		}
		result = append(result, doc.toModel())
	}

	return result, nil
}
