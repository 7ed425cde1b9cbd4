package auth

import (
	"context"

	"github.com/resumekit/cv-service/internal/domain"
)

type identityKey struct{}

// WithIdentity returns a context carrying the resolved caller.
func WithIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext retrieves the caller attached by the Gate.
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(domain.Identity)
	if !ok || id.AccountID == "" {
		return domain.Identity{}, false
	}
	return id, true
}
