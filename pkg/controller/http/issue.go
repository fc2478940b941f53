package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"

	"github.com/flatconnect/flatconnect/pkg/domain/model/auth"
	"github.com/flatconnect/flatconnect/pkg/domain/types"
	"github.com/flatconnect/flatconnect/pkg/usecase"
)

type createIssueRequest struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	EstimatedCost *float64 `json:"estimated_cost,omitempty"`
}

func (s *Server) createIssue(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.IdentityFromContext(r.Context())
	if err != nil {
		handleError(r.Context(), w, err)
		return
	}

	var req createIssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(r.Context(), w, goerr.Wrap(usecase.ErrTitleRequired, "invalid request body"))
		return
	}

	issue, state, err := s.uc.Issue.CreateIssue(r.Context(), identity, &usecase.CreateIssueInput{
		Title:         req.Title,
		Description:   req.Description,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		EstimatedCost: req.EstimatedCost,
	})
	if err != nil {
		handleError(r.Context(), w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"id":       issue.ID.String(),
		"pipeline": string(state),
		"issue":    toIssueResponse(issue),
	})
}

func (s *Server) listIssues(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.IdentityFromContext(r.Context())
	if err != nil {
		handleError(r.Context(), w, err)
		return
	}

	issues, err := s.uc.Issue.ListIssues(r.Context(), identity)
	if err != nil {
		handleError(r.Context(), w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"issues": toIssueResponses(issues)})
}

func (s *Server) myIssues(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.IdentityFromContext(r.Context())
	if err != nil {
		handleError(r.Context(), w, err)
		return
	}

	issues, err := s.uc.Issue.MyIssues(r.Context(), identity)
	if err != nil {
		handleError(r.Context(), w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"issues": toIssueResponses(issues)})
}

func (s *Server) assignedIssues(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.IdentityFromContext(r.Context())
	if err != nil {
		handleError(r.Context(), w, err)
		return
	}

	issues, err := s.uc.Issue.AssignedIssues(r.Context(), identity)
	if err != nil {
		handleError(r.Context(), w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"issues": toIssueResponses(issues)})
}

func (s *Server) getIssue(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.IdentityFromContext(r.Context())
	if err != nil {
		handleError(r.Context(), w, err)
		return
	}

	issue, err := s.uc.Issue.GetIssue(r.Context(), identity, types.IssueID(chi.URLParam(r, "issueID")))
	if err != nil {
		handleError(r.Context(), w, err)
		return
	}

	respondJSON(w, http.StatusOK, toIssueResponse(issue))
}

func (s *Server) deleteIssue(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.IdentityFromContext(r.Context())
	if err != nil {
		handleError(r.Context(), w, err)
		return
	}

	if err := s.uc.Issue.DeleteIssue(r.Context(), identity, types.IssueID(chi.URLParam(r, "issueID"))); err != nil {
		handleError(r.Context(), w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type assignIssueRequest struct {
	WorkerID string `json:"worker_id"`
	Status   string `json:"status,omitempty"`
}

func (s *Server) assignIssue(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.IdentityFromContext(r.Context())
	if err != nil {
		handleError(r.Context(), w, err)
		return
	}

	var req assignIssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(r.Context(), w, goerr.Wrap(usecase.ErrWorkerRequired, "invalid request body"))
		return
	}

	result, err := s.uc.Issue.AssignIssue(r.Context(), identity,
		types.IssueID(chi.URLParam(r, "issueID")),
		types.UserID(req.WorkerID),
		req.Status,
	)
	if err != nil {
		handleError(r.Context(), w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"issue":       toIssueResponse(result.Issue),
		"worker_name": result.WorkerName,
		"worker_role": result.WorkerRole.String(),
	})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) updateStatus(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.IdentityFromContext(r.Context())
	if err != nil {
		handleError(r.Context(), w, err)
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(r.Context(), w, goerr.Wrap(usecase.ErrInvalidStatus, "invalid request body"))
		return
	}

	issue, err := s.uc.Issue.UpdateStatus(r.Context(), identity,
		types.IssueID(chi.URLParam(r, "issueID")), req.Status)
	if err != nil {
		handleError(r.Context(), w, err)
		return
	}

	respondJSON(w, http.StatusOK, toIssueResponse(issue))
}

func (s *Server) startPipeline(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.IdentityFromContext(r.Context())
	if err != nil {
		handleError(r.Context(), w, err)
		return
	}

	if err := s.uc.Issue.StartPipeline(r.Context(), identity, types.IssueID(chi.URLParam(r, "issueID"))); err != nil {
		handleError(r.Context(), w, err)
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]string{"pipeline": string(usecase.PipelineQueued)})
}

func (s *Server) listActions(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.IdentityFromContext(r.Context())
	if err != nil {
		handleError(r.Context(), w, err)
		return
	}

	actions, err := s.uc.Issue.ListActions(r.Context(), identity, types.IssueID(chi.URLParam(r, "issueID")))
	if err != nil {
		handleError(r.Context(), w, err)
		return
	}

	resp := make([]*actionResponse, len(actions))
	for i, action := range actions {
		resp[i] = &actionResponse{
			ID:             action.ID.String(),
			AgentType:      action.AgentType.String(),
			Action:         action.Action,
			Input:          action.Input,
			Output:         action.Output,
			Confidence:     action.Confidence,
			ProcessingTime: action.ProcessingTime,
			CreatedAt:      action.CreatedAt,
		}
	}
	respondJSON(w, http.StatusOK, map[string]any{"actions": resp})
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.uc.Issue.ListCategories(r.Context())
	if err != nil {
		handleError(r.Context(), w, err)
		return
	}

	resp := make([]*categoryResponse, len(categories))
	for i, c := range categories {
		resp[i] = &categoryResponse{
			ID:          c.ID.String(),
			Name:        c.Name,
			Description: c.Description,
		}
	}
	respondJSON(w, http.StatusOK, map[string]any{"categories": resp})
}

func (s *Server) listWorkers(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.IdentityFromContext(r.Context())
	if err != nil {
		handleError(r.Context(), w, err)
		return
	}

	workers, err := s.uc.Issue.ListWorkers(r.Context(), identity)
	if err != nil {
		handleError(r.Context(), w, err)
		return
	}

	resp := make([]*userResponse, len(workers))
	for i, worker := range workers {
		resp[i] = &userResponse{
			ID:          worker.ID.String(),
			Email:       worker.Email,
			DisplayName: worker.DisplayName,
			Role:        worker.Role.String(),
		}
	}
	respondJSON(w, http.StatusOK, map[string]any{"workers": resp})
}
