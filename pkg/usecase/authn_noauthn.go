package usecase

import (
	"context"

	"github.com/flatconnect/flatconnect/pkg/domain/model/auth"
	"github.com/flatconnect/flatconnect/pkg/domain/types"
)

// NoAuthnUseCase authenticates every request as a fixed user (for
// development/testing)
type NoAuthnUseCase struct {
	identity *auth.Identity
}

// NewNoAuthnUseCase creates a NoAuthnUseCase acting as the specified user
func NewNoAuthnUseCase(sub types.UserID, email, name string, role types.Role) *NoAuthnUseCase {
	return &NoAuthnUseCase{
		identity: &auth.Identity{
			Sub:   sub,
			Email: email,
			Name:  name,
			Role:  role,
		},
	}
}

// ValidateToken always returns the configured identity regardless of token
func (uc *NoAuthnUseCase) ValidateToken(ctx context.Context, token string) (*auth.Identity, error) {
	return uc.identity, nil
}

// IsNoAuthn returns true for NoAuthnUseCase
func (uc *NoAuthnUseCase) IsNoAuthn() bool {
	return true
}
