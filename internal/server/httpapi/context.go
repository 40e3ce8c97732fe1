package httpapi

import (
	"context"

	"github.com/streamhub/authd/internal/server/models"
)

type ctxKey string

const identityKey ctxKey = "identity"

// withIdentity attaches the authenticated identity to the request context.
func withIdentity(ctx context.Context, user *models.PublicUser) context.Context {
	return context.WithValue(ctx, identityKey, user)
}

// IdentityFromContext returns the identity attached by the authentication
// middleware, or nil when the request was not authenticated.
func IdentityFromContext(ctx context.Context) *models.PublicUser {
	user, _ := ctx.Value(identityKey).(*models.PublicUser)
	return user
}
