package middleware

import (
	"net/http"

	"github.com/frahmantamala/identity-access/internal"
	"github.com/frahmantamala/identity-access/pkg/logger"
)

// UserContext tags the request logger with the authenticated user. It must
// run after the auth middleware has stored the principal.
func UserContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := internal.PrincipalFromContext(r.Context())
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		ctx := logger.With(r.Context(), "userID", principal.UserID, "username", principal.Username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
