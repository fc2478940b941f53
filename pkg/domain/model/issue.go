package model

import (
	"time"

	"github.com/flatconnect/flatconnect/pkg/domain/types"
)

// Issue is the aggregate root of the reporting workflow. AgentActions and
// issue-linked Notifications referencing it are owned by it and removed when
// the issue is deleted.
type Issue struct {
	ID                    types.IssueID
	Title                 string
	Description           string
	DescriptionTranslated string
	Language              types.Language
	CategoryID            *types.CategoryID
	Priority              types.Priority
	Status                types.IssueStatus
	ReporterID            types.UserID
	AssignedTo            *types.UserID
	Latitude              *float64
	Longitude             *float64
	EstimatedCost         *float64
	CreatedAt             time.Time
	UpdatedAt             time.Time
	ResolvedAt            *time.Time
}

// MarkResolved stamps ResolvedAt once. A later re-resolution keeps the
// original timestamp.
func (i *Issue) MarkResolved(now time.Time) {
	if i.ResolvedAt == nil {
		t := now.UTC()
		i.ResolvedAt = &t
	}
}
