package access

import (
	"context"

	"github.com/HabibPro1999/cabinet-optimizer/pkg/types"
)

type contextKey string

const claimsKey contextKey = "user_claims"

// ContextWithClaims returns a context carrying the resolved session
// claims.
func ContextWithClaims(ctx context.Context, claims *types.UserClaims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext extracts the session claims set by the auth
// middleware. The second return is false when the request was not
// authenticated.
func ClaimsFromContext(ctx context.Context) (*types.UserClaims, bool) {
	claims, ok := ctx.Value(claimsKey).(*types.UserClaims)
	return claims, ok
}
