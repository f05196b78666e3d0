package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/identity-access/internal/auth"
	"github.com/frahmantamala/identity-access/internal/permission"
	"github.com/frahmantamala/identity-access/internal/role"
	"github.com/frahmantamala/identity-access/internal/rolepermission"
	"github.com/frahmantamala/identity-access/internal/transport"
	"github.com/frahmantamala/identity-access/internal/transport/middleware"
	"github.com/frahmantamala/identity-access/internal/transport/swagger"
	"github.com/frahmantamala/identity-access/internal/user"
	"github.com/frahmantamala/identity-access/internal/userrole"
	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Auth           *auth.Handler
	RBAC           *auth.RBACAuthorization
	User           *user.Handler
	Role           *role.Handler
	Permission     *permission.Handler
	UserRole       *userrole.Handler
	RolePermission *rolepermission.Handler
	Health         *HealthHandler
}

type Options struct {
	AllowedOrigins     string
	LoginRatePerMinute int
	LoginBurst         int
	// MetricsPath mounts the Prometheus handler when non-empty.
	MetricsPath string
	// OpenAPI is served at /openapi.yml and backs the Swagger UI when set.
	OpenAPI *swagger.Spec
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, opts Options, logger *slog.Logger) {
	base := transport.NewBaseHandler(logger)

	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(middleware.Language)
	router.Use(middleware.Metrics)
	router.Use(middleware.LoggingMiddleware(logger))

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		base.WriteError(w, http.StatusNotFound, "route not found")
	})

	if opts.MetricsPath != "" {
		router.Handle(opts.MetricsPath, promhttp.Handler())
	}

	if opts.OpenAPI != nil {
		router.Get("/openapi.yml", opts.OpenAPI.ServeHTTP)
		router.Handle("/swagger/*", swagger.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		if h.Health != nil {
			r.Get("/health", h.Health.healthCheckHandler)
			r.Get("/ping", h.Health.pingHandler)
		}

		r.Route("/auth", func(ar chi.Router) {
			ar.With(middleware.RateLimit(base, opts.LoginRatePerMinute, opts.LoginBurst)).Post("/login", h.Auth.Login)
			ar.Post("/refresh", h.Auth.RefreshToken)
			ar.Group(func(pr chi.Router) {
				pr.Use(h.Auth.AuthMiddleware)
				pr.Use(middleware.UserContext)
				pr.Post("/logout", h.Auth.Logout)
				pr.Get("/me", h.Auth.Me)
			})
		})

		// public registration
		r.Post("/users", h.User.Register)

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)
			pr.Use(middleware.UserContext)
			pr.Use(h.RBAC.Require(auth.PermissionManageIdentity))

			pr.Get("/users", h.User.List)
			pr.Get("/users/{username}", h.User.Get)
			pr.Patch("/users/{username}/email", h.User.UpdateEmail)
			pr.Patch("/users/{username}/username", h.User.UpdateUsername)
			pr.Patch("/users/{username}/password", h.User.ChangePassword)
			pr.Patch("/users/{username}/status", h.User.UpdateStatus)
			pr.Delete("/users/{username}", h.User.Delete)

			pr.Post("/roles", h.Role.Create)
			pr.Get("/roles", h.Role.List)
			pr.Get("/roles/{name}", h.Role.Get)
			pr.Patch("/roles/{name}", h.Role.Update)
			pr.Delete("/roles/{name}", h.Role.Delete)

			pr.Post("/permissions", h.Permission.Create)
			pr.Get("/permissions", h.Permission.List)
			pr.Get("/permissions/{name}", h.Permission.Get)
			pr.Patch("/permissions/{name}", h.Permission.Update)
			pr.Delete("/permissions/{name}", h.Permission.Delete)

			pr.Get("/user-roles", h.UserRole.List)
			pr.Get("/users/{userID}/roles", h.UserRole.ListByUser)
			pr.Post("/users/{userID}/roles", h.UserRole.Assign)
			pr.Get("/users/{userID}/roles/{roleID}", h.UserRole.Check)
			pr.Put("/users/{userID}/roles/{roleID}", h.UserRole.Update)
			pr.Delete("/users/{userID}/roles/{roleID}", h.UserRole.Remove)
			pr.Get("/roles/{roleID}/users", h.UserRole.ListByRole)

			pr.Get("/role-permissions", h.RolePermission.List)
			pr.Get("/roles/{roleID}/permissions", h.RolePermission.ListByRole)
			pr.Post("/roles/{roleID}/permissions", h.RolePermission.Grant)
			pr.Get("/roles/{roleID}/permissions/{permissionID}", h.RolePermission.Check)
			pr.Put("/roles/{roleID}/permissions/{permissionID}", h.RolePermission.Update)
			pr.Delete("/roles/{roleID}/permissions/{permissionID}", h.RolePermission.Revoke)
			pr.Get("/permissions/{permissionID}/roles", h.RolePermission.ListByPermission)
		})
	})
}
