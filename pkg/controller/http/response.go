package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/flatconnect/flatconnect/pkg/domain/model"
	"github.com/flatconnect/flatconnect/pkg/usecase"
	"github.com/flatconnect/flatconnect/pkg/utils/errutil"
)

func handleError(ctx context.Context, w http.ResponseWriter, err error) {
	errutil.HandleHTTP(ctx, w, err, statusOf(err))
}

// statusOf maps use case sentinels to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, usecase.ErrIssueNotFound),
		errors.Is(err, usecase.ErrWorkerNotFound),
		errors.Is(err, usecase.ErrNotificationNotFound):
		return http.StatusNotFound

	case errors.Is(err, usecase.ErrPermissionDenied):
		return http.StatusForbidden

	case errors.Is(err, usecase.ErrTitleRequired),
		errors.Is(err, usecase.ErrDescriptionRequired),
		errors.Is(err, usecase.ErrWorkerRequired),
		errors.Is(err, usecase.ErrInvalidStatus),
		errors.Is(err, usecase.ErrWorkerNotAssignable):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

type issueResponse struct {
	ID                    string     `json:"id"`
	Title                 string     `json:"title"`
	Description           string     `json:"description"`
	DescriptionTranslated string     `json:"description_translated,omitempty"`
	Language              string     `json:"language,omitempty"`
	CategoryID            *string    `json:"category_id,omitempty"`
	Priority              int        `json:"priority"`
	Status                string     `json:"status"`
	ReporterID            string     `json:"reporter_id"`
	AssignedTo            *string    `json:"assigned_to,omitempty"`
	Latitude              *float64   `json:"latitude,omitempty"`
	Longitude             *float64   `json:"longitude,omitempty"`
	EstimatedCost         *float64   `json:"estimated_cost,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
	ResolvedAt            *time.Time `json:"resolved_at,omitempty"`
}

func toIssueResponse(issue *model.Issue) *issueResponse {
	resp := &issueResponse{
		ID:                    issue.ID.String(),
		Title:                 issue.Title,
		Description:           issue.Description,
		DescriptionTranslated: issue.DescriptionTranslated,
		Language:              issue.Language.String(),
		Priority:              int(issue.Priority),
		Status:                issue.Status.String(),
		ReporterID:            issue.ReporterID.String(),
		Latitude:              issue.Latitude,
		Longitude:             issue.Longitude,
		EstimatedCost:         issue.EstimatedCost,
		CreatedAt:             issue.CreatedAt,
		UpdatedAt:             issue.UpdatedAt,
		ResolvedAt:            issue.ResolvedAt,
	}
	if issue.CategoryID != nil {
		s := issue.CategoryID.String()
		resp.CategoryID = &s
	}
	if issue.AssignedTo != nil {
		s := issue.AssignedTo.String()
		resp.AssignedTo = &s
	}
	return resp
}

func toIssueResponses(issues []*model.Issue) []*issueResponse {
	result := make([]*issueResponse, len(issues))
	for i, issue := range issues {
		result[i] = toIssueResponse(issue)
	}
	return result
}

type categoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type userResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

type notificationResponse struct {
	ID        string    `json:"id"`
	IssueID   *string   `json:"issue_id,omitempty"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

type actionResponse struct {
	ID             string         `json:"id"`
	AgentType      string         `json:"agent_type"`
	Action         string         `json:"action"`
	Input          map[string]any `json:"input,omitempty"`
	Output         map[string]any `json:"output,omitempty"`
	Confidence     *float64       `json:"confidence,omitempty"`
	ProcessingTime float64        `json:"processing_time"`
	CreatedAt      time.Time      `json:"created_at"`
}
