package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/flatconnect/flatconnect/pkg/domain/interfaces"
	"github.com/flatconnect/flatconnect/pkg/domain/types"
	"github.com/flatconnect/flatconnect/pkg/usecase"
	"github.com/flatconnect/flatconnect/pkg/utils/logging"
)

// Auth holds CLI flags for session token authentication
type Auth struct {
	tokenSecret string
	noAuthUser  string
	noAuthRole  string
}

// Flags returns CLI flags for authentication configuration
func (a *Auth) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "token-secret",
			Usage:       "HMAC secret for signing session tokens",
			Category:    "Authentication",
			Sources:     cli.EnvVars("FLATCONNECT_TOKEN_SECRET"),
			Destination: &a.tokenSecret,
		},
		&cli.StringFlag{
			Name:        "no-auth",
			Usage:       "Skip authentication and run as the specified user ID (development only). Example: --no-auth=dev-user",
			Category:    "Authentication",
			Sources:     cli.EnvVars("FLATCONNECT_NO_AUTH"),
			Destination: &a.noAuthUser,
		},
		&cli.StringFlag{
			Name:        "no-auth-role",
			Usage:       "Role assumed by the no-auth user",
			Category:    "Authentication",
			Value:       "admin",
			Sources:     cli.EnvVars("FLATCONNECT_NO_AUTH_ROLE"),
			Destination: &a.noAuthRole,
		},
	}
}

// IsNoAuthMode reports whether authentication is bypassed
func (a *Auth) IsNoAuthMode() bool {
	return a.noAuthUser != ""
}

// LogValue implements slog.LogValuer to log the configuration safely
func (a *Auth) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("token_secret_set", a.tokenSecret != ""),
		slog.String("no_auth_user", a.noAuthUser),
	)
}

// Configure builds the authentication use case. Exactly one of --token-secret
// and --no-auth must be set.
func (a *Auth) Configure(repo interfaces.Repository) (usecase.AuthUseCaseInterface, error) {
	if a.noAuthUser != "" {
		role := types.Role(a.noAuthRole)
		if !role.IsValid() {
			return nil, goerr.New("invalid no-auth role", goerr.V("role", a.noAuthRole))
		}
		logging.Default().Warn("Running in no-auth mode (development only)",
			"user_id", a.noAuthUser,
			"role", a.noAuthRole,
		)
		return usecase.NewNoAuthnUseCase(
			types.UserID(a.noAuthUser),
			a.noAuthUser+"@localhost",
			a.noAuthUser,
			role,
		), nil
	}

	if a.tokenSecret == "" {
		return nil, goerr.New("token-secret is required unless --no-auth is set")
	}

	return usecase.NewAuthUseCase(repo, []byte(a.tokenSecret)), nil
}
