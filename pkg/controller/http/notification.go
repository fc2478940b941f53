package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/flatconnect/flatconnect/pkg/domain/model/auth"
	"github.com/flatconnect/flatconnect/pkg/domain/types"
)

func (s *Server) listNotifications(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.IdentityFromContext(r.Context())
	if err != nil {
		handleError(r.Context(), w, err)
		return
	}

	notifications, err := s.uc.Notification.List(r.Context(), identity)
	if err != nil {
		handleError(r.Context(), w, err)
		return
	}

	resp := make([]*notificationResponse, len(notifications))
	for i, n := range notifications {
		item := &notificationResponse{
			ID:        n.ID.String(),
			Message:   n.Message,
			Type:      n.Type.String(),
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		}
		if n.IssueID != nil {
			s := n.IssueID.String()
			item.IssueID = &s
		}
		resp[i] = item
	}
	respondJSON(w, http.StatusOK, map[string]any{"notifications": resp})
}

func (s *Server) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.IdentityFromContext(r.Context())
	if err != nil {
		handleError(r.Context(), w, err)
		return
	}

	id := types.NotificationID(chi.URLParam(r, "notificationID"))
	if err := s.uc.Notification.MarkRead(r.Context(), identity, id); err != nil {
		handleError(r.Context(), w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "read"})
}
