package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/flatconnect/flatconnect/pkg/usecase"
	"github.com/flatconnect/flatconnect/pkg/utils/logging"
)

type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases
}

type Options func(*Server)

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware(uc.Auth))

		r.Route("/issues", func(r chi.Router) {
			r.Post("/", s.createIssue)
			r.Get("/", s.listIssues)
			r.Get("/mine", s.myIssues)
			r.Get("/assigned", s.assignedIssues)

			r.Route("/{issueID}", func(r chi.Router) {
				r.Get("/", s.getIssue)
				r.Delete("/", s.deleteIssue)
				r.Post("/assign", s.assignIssue)
				r.Post("/status", s.updateStatus)
				r.Post("/start", s.startPipeline)
				r.Get("/actions", s.listActions)
			})
		})

		r.Get("/categories", s.listCategories)
		r.Get("/workers", s.listWorkers)

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", s.listNotifications)
			r.Post("/{notificationID}/read", s.markNotificationRead)
		})
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Default().Error("failed to write response", "error", err.Error())
	}
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
