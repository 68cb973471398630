package middleware

import (
	"net/http"

	"github.com/schoolsuite/institute-admin-api/internal/http/response"
	"github.com/schoolsuite/institute-admin-api/internal/service"
)

// RequirePermission guards a route behind a single codename. Superadmins
// bypass the check; everyone else is resolved through the cached permission
// resolver. A resolver outage is a 503, never a silent allow.
func RequirePermission(rbac service.RBACAuthorizer, resolver service.PermissionResolver, codename string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
				return
			}
			if claims.IsSuperAdmin {
				next.ServeHTTP(w, r)
				return
			}
			if resolver == nil {
				response.Error(w, r, http.StatusServiceUnavailable, "PERMISSIONS_UNAVAILABLE", "permission resolution unavailable", nil)
				return
			}
			codenames, err := resolver.ResolvePermissions(r.Context(), claims)
			if err != nil {
				response.Error(w, r, http.StatusServiceUnavailable, "PERMISSIONS_UNAVAILABLE", "permission resolution unavailable", nil)
				return
			}
			if !rbac.HasPermission(codenames, codename) {
				response.Error(w, r, http.StatusForbidden, "FORBIDDEN", "insufficient permission", map[string]string{"required": codename})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSuperAdmin guards routes with no codename equivalent, such as group
// management bootstrap paths.
func RequireSuperAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
			return
		}
		if !claims.IsSuperAdmin {
			response.Error(w, r, http.StatusForbidden, "FORBIDDEN", "superadmin required", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
