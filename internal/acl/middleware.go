// internal/acl/middleware.go
//
// Chi middleware helpers that enforce role checks.
//
// Roles come from the verified token (see internal/auth); there is no role
// table.  Mount after auth.Middleware.

package acl

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/yanizio/triomap/internal/apperr"
	"github.com/yanizio/triomap/internal/auth"
	"github.com/yanizio/triomap/internal/respond"
)

// RequireRole ensures the current caller holds ANY of the supplied roles.
func RequireRole(names ...string) func(http.Handler) http.Handler {
	if len(names) == 0 {
		panic("acl.RequireRole: at least one role name must be supplied")
	}
	allowSet := make(map[string]struct{}, len(names))
	for _, n := range names {
		allowSet[n] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := auth.FromContext(r.Context())
			if !ok {
				respond.Error(w, r, apperr.Unauthorized("Authentication required"))
				return
			}
			if _, ok := allowSet[p.Role]; !ok {
				zap.L().Info("acl denied",
					zap.String("user", p.UserID),
					zap.String("role", p.Role),
					zap.String("path", r.URL.Path))
				respond.Error(w, r, apperr.Forbidden("Insufficient role"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin is RequireRole(auth.RoleAdmin).
func RequireAdmin() func(http.Handler) http.Handler {
	return RequireRole(auth.RoleAdmin)
}
