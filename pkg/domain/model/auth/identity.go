package auth

import (
	"context"

	"github.com/flatconnect/flatconnect/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Identity is the authenticated caller attached to a request context after
// token validation.
type Identity struct {
	Sub   types.UserID
	Email string
	Name  string
	Role  types.Role
}

// IsPrivileged reports whether the identity may perform assignment and other
// staff operations
func (i *Identity) IsPrivileged() bool {
	return i.Role.CanAssign()
}

type ctxKey struct{}

// ContextWithIdentity attaches an identity to the context
func ContextWithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// IdentityFromContext extracts the identity from the context
func IdentityFromContext(ctx context.Context) (*Identity, error) {
	id, ok := ctx.Value(ctxKey{}).(*Identity)
	if !ok || id == nil {
		return nil, goerr.New("no identity in context")
	}
	return id, nil
}
