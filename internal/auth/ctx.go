package auth

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

var principalCtxKey = &contextKey{"principal"}

type contextKey struct {
	name string
}

// WithPrincipal sets the verified principal in the given context
func WithPrincipal(ctx context.Context, claims *AccessClaims) context.Context {
	return context.WithValue(ctx, principalCtxKey, claims)
}

// PrincipalFrom finds the principal in the standard context.
func PrincipalFrom(ctx context.Context) (*AccessClaims, bool) {
	raw, ok := ctx.Value(principalCtxKey).(*AccessClaims)
	return raw, ok
}

// PrincipalFromFiber extracts the principal stored by the guard in the
// request locals. Pass a key when the guard was configured with a
// non-default ContextKey.
func PrincipalFromFiber(c *fiber.Ctx, key ...string) (*AccessClaims, bool) {
	ctxKey := defaultContextKey
	if len(key) > 0 && key[0] != "" {
		ctxKey = key[0]
	}
	raw := c.Locals(ctxKey)
	if raw == nil {
		return nil, false
	}
	claims, ok := raw.(*AccessClaims)
	return claims, ok
}
