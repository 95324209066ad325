package auth

import "context"

// RequestContext is the immutable per-request identity: the tenant resolved
// from the Origin header and, once a bearer token has been verified, the
// user it belongs to. Middleware writes it once; handlers only read it.
type RequestContext struct {
	Tenant string
	UserID string
	Token  string
}

type contextKey struct{}

// WithRequestContext stores rc in ctx.
func WithRequestContext(ctx context.Context, rc RequestContext) context.Context {
	return context.WithValue(ctx, contextKey{}, rc)
}

// FromContext reads the RequestContext. The zero value means no middleware
// ran, which only happens in tests wiring handlers directly.
func FromContext(ctx context.Context) RequestContext {
	rc, _ := ctx.Value(contextKey{}).(RequestContext)
	return rc
}
