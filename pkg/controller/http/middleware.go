package http

import (
	"net/http"
	"strings"

	"github.com/flatconnect/flatconnect/pkg/domain/model/auth"
	"github.com/flatconnect/flatconnect/pkg/usecase"
)

// authMiddleware resolves the bearer token to an identity and attaches it to
// the request context. In no-auth mode every request runs as the configured
// development user.
func authMiddleware(authUC usecase.AuthUseCaseInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if authUC == nil {
				http.Error(w, "authentication is not configured", http.StatusUnauthorized)
				return
			}

			var token string
			if !authUC.IsNoAuthn() {
				header := r.Header.Get("Authorization")
				if !strings.HasPrefix(header, "Bearer ") {
					http.Error(w, "authentication required", http.StatusUnauthorized)
					return
				}
				token = strings.TrimPrefix(header, "Bearer ")
			}

			identity, err := authUC.ValidateToken(r.Context(), token)
			if err != nil {
				http.Error(w, "invalid authentication token", http.StatusUnauthorized)
				return
			}

			ctx := auth.ContextWithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
