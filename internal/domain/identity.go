package domain

import "context"

// Caller roles carried in the bearer token.
const (
	RoleAdmin   = "admin"
	RoleService = "service"
	RoleUser    = "user"
)

// Identity is the authenticated caller.
type Identity struct {
	UserID    string
	CompanyID string
	Role      string
}

type identityKey struct{}

type requestIDKey struct{}

// WithIdentity returns a copy of ctx carrying the caller identity.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the caller identity, or nil for anonymous requests.
func IdentityFromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityKey{}).(*Identity)
	return id
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey{}).(string)
	return v
}
