package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/goerr/v2"

	"github.com/flatconnect/flatconnect/pkg/domain/interfaces"
	"github.com/flatconnect/flatconnect/pkg/domain/model/auth"
	"github.com/flatconnect/flatconnect/pkg/domain/types"
	"github.com/flatconnect/flatconnect/pkg/repository"
)

// AuthUseCaseInterface is the authentication boundary: a bearer token in, an
// identity out. The OAuth handshake and password management live in an
// external collaborator.
type AuthUseCaseInterface interface {
	ValidateToken(ctx context.Context, token string) (*auth.Identity, error)
	IsNoAuthn() bool
}

const sessionTokenTTL = 24 * time.Hour

// AuthUseCase validates HS256 session tokens and resolves them to users.
type AuthUseCase struct {
	repo   interfaces.Repository
	secret []byte
}

func NewAuthUseCase(repo interfaces.Repository, secret []byte) *AuthUseCase {
	return &AuthUseCase{
		repo:   repo,
		secret: secret,
	}
}

// IssueToken creates a signed session token for the given user.
func (uc *AuthUseCase) IssueToken(ctx context.Context, userID types.UserID) (string, error) {
	now := time.Now()
	token, err := jwt.NewBuilder().
		Subject(userID.String()).
		IssuedAt(now).
		Expiration(now.Add(sessionTokenTTL)).
		Build()
	if err != nil {
		return "", goerr.Wrap(err, "failed to build session token")
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256, uc.secret))
	if err != nil {
		return "", goerr.Wrap(err, "failed to sign session token")
	}

	return string(signed), nil
}

// ValidateToken verifies the token signature and expiry, then loads the user
// behind it.
func (uc *AuthUseCase) ValidateToken(ctx context.Context, token string) (*auth.Identity, error) {
	parsed, err := jwt.Parse([]byte(token),
		jwt.WithKey(jwa.HS256, uc.secret),
		jwt.WithValidate(true),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse session token")
	}

	userID := types.UserID(parsed.Subject())
	user, err := uc.repo.User().Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, goerr.Wrap(err, "token subject is not a known user", goerr.V("user_id", userID))
		}
		return nil, goerr.Wrap(err, "failed to load user", goerr.V("user_id", userID))
	}

	return &auth.Identity{
		Sub:   user.ID,
		Email: user.Email,
		Name:  user.Name(),
		Role:  user.Role,
	}, nil
}

// IsNoAuthn returns false for regular AuthUseCase
func (uc *AuthUseCase) IsNoAuthn() bool {
	return false
}
