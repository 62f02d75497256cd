package httpx

import "context"

type ctxKey string

const (
	CtxKeyPrincipal ctxKey = "principal"
	CtxKeyToken     ctxKey = "token"
)

// Principal is the minimum an authorization check needs to know about a
// caller. An unauthenticated caller still has a Principal, it just reports
// false from IsAuthenticated.
type Principal interface {
	IsAuthenticated() bool
	HasAnyRole(roles ...string) bool
}

// PrincipalFromContext returns the principal attached by AuthnMiddleware, or
// nil if the middleware did not run.
func PrincipalFromContext(ctx context.Context) Principal {
	if p, ok := ctx.Value(CtxKeyPrincipal).(Principal); ok {
		return p
	}
	return nil
}

// TokenFromContext returns the raw bearer token, if one was presented.
func TokenFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(CtxKeyToken).(string); ok {
		return s
	}
	return ""
}

func contextWithPrincipal(ctx context.Context, p Principal, token string) context.Context {
	ctx = context.WithValue(ctx, CtxKeyPrincipal, p)
	ctx = context.WithValue(ctx, CtxKeyToken, token)
	return ctx
}
