package auth

import (
	"net/http"

	"github.com/frahmantamala/identity-access/internal"
	"github.com/frahmantamala/identity-access/internal/transport"
)

// PermissionManageIdentity guards every management route.
const PermissionManageIdentity = "identity:manage"

type RBACAuthorization struct {
	*transport.BaseHandler
}

func NewRBACAuthorization(baseHandler *transport.BaseHandler) *RBACAuthorization {
	return &RBACAuthorization{BaseHandler: baseHandler}
}

// Check lets the request through when the principal holds permission.
// It must run after AuthMiddleware.
func (ra *RBACAuthorization) Check(next http.HandlerFunc, permission string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := internal.PrincipalFromContext(r.Context())
		if !ok {
			ra.Logger.WarnContext(r.Context(), "authorization check failed: no principal in context")
			ra.WriteAppError(w, r, internal.ErrTokenInvalid)
			return
		}

		if !principal.HasPermission(permission) {
			ra.Logger.WarnContext(r.Context(), "access denied: insufficient permissions",
				"user_id", principal.UserID,
				"required_permission", permission,
				"roles", principal.Roles)
			ra.WriteAppError(w, r, internal.ErrForbidden)
			return
		}

		next.ServeHTTP(w, r)
	}
}

func (ra *RBACAuthorization) Require(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return ra.Check(next.ServeHTTP, permission)
	}
}

// RequireAny passes when the principal holds at least one of permissions.
func (ra *RBACAuthorization) RequireAny(permissions ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := internal.PrincipalFromContext(r.Context())
			if !ok {
				ra.WriteAppError(w, r, internal.ErrTokenInvalid)
				return
			}
			for _, p := range permissions {
				if principal.HasPermission(p) {
					next.ServeHTTP(w, r)
					return
				}
			}
			ra.Logger.WarnContext(r.Context(), "access denied: none of the required permissions",
				"user_id", principal.UserID, "required_permissions", permissions)
			ra.WriteAppError(w, r, internal.ErrForbidden)
		})
	}
}
