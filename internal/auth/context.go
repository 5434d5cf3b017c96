// internal/auth/context.go
//
// Request principal carried in context.
//
// Usage
// -----
//
//	// Attach the verified caller (done by Middleware).
//	ctx = auth.WithPrincipal(ctx, auth.Principal{UserID: "u1", Role: auth.RoleUser})
//
//	// Downstream code retrieves it.
//	p, ok := auth.FromContext(ctx)
package auth

import "context"

// Roles understood by the service.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Principal is the authenticated caller.
type Principal struct {
	UserID string
	Role   string
}

// IsAdmin reports whether p may use admin-only operations.
func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

// principalKey is unexported to avoid context-key collisions.
type principalKey struct{}

// WithPrincipal returns a new context carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext extracts the principal.  ok is false when the request was not
// authenticated.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// UserID is a shortcut for FromContext(ctx).UserID.
func UserID(ctx context.Context) (string, bool) {
	p, ok := FromContext(ctx)
	return p.UserID, ok && p.UserID != ""
}
