package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/frahmantamala/identity-access/internal"
	"github.com/frahmantamala/identity-access/internal/auth"
	"github.com/frahmantamala/identity-access/internal/permission"
	"github.com/frahmantamala/identity-access/internal/role"
	"github.com/frahmantamala/identity-access/internal/rolepermission"
	"github.com/frahmantamala/identity-access/internal/transport"
	"github.com/frahmantamala/identity-access/internal/transport/rest"
	"github.com/frahmantamala/identity-access/internal/transport/swagger"
	"github.com/frahmantamala/identity-access/internal/user"
	"github.com/frahmantamala/identity-access/internal/userrole"
	"github.com/frahmantamala/identity-access/pkg/logger"
	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	Router   *chi.Mux
	Logger   *slog.Logger
	Services *services
	closers  []func() error
}

func startHTTPServer() {
	deps, err := initializeDependencies(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "env", deps.Config.Env, "driver", deps.Config.Database.Driver)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), deps.Config.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("Server failed to start", "error", err)
			deps.Services.bus.Wait()
			closeAll(deps.Logger, deps.closers...)
			os.Exit(1)
		}
	}

	deps.Services.bus.Wait()
	closeAll(deps.Logger, deps.closers...)
	deps.Logger.Info("Server stopped")
}

func initializeDependencies(ctx context.Context) (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	lg := logger.Configure(os.Stdout, config.Observability.Logging.Format, config.Observability.Logging.Level)

	ctx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	repos, err := openRepositories(config.Database, lg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	revoker, redisClient, err := newRevoker(ctx, config.Redis, lg)
	if err != nil {
		closeAll(lg, repos.close)
		return nil, fmt.Errorf("failed to initialize token revocation: %w", err)
	}
	closers := []func() error{repos.close}
	if redisClient != nil {
		closers = append(closers, redisClient.Close)
	}

	svcs := newServices(repos, config, lg)

	tokens, err := auth.NewJWTManager(
		config.Security.JWTSecretKey,
		config.Security.JWTAlgorithm,
		config.Security.JWTIssuer,
		config.Security.JWTExpireMinutes,
	)
	if err != nil {
		closeAll(lg, closers...)
		return nil, fmt.Errorf("failed to initialize jwt: %w", err)
	}

	authService := auth.NewService(svcs.users, tokens, newResolver(repos, svcs), revoker, auth.TokenConfig{
		AccessExpireMinutes:  config.Security.JWTExpireMinutes,
		RefreshExpireMinutes: config.Security.RefreshExpireMinutes,
	}, lg)

	opts := rest.Options{
		AllowedOrigins:     config.Server.AllowedOrigins,
		LoginRatePerMinute: config.Security.LoginRatePerMinute,
		LoginBurst:         config.Security.LoginBurst,
	}
	if config.Observability.Metrics.Enabled {
		opts.MetricsPath = config.Observability.Metrics.Path
	}
	if config.OpenAPI.Enabled {
		spec, err := swagger.Load(ctx, config.OpenAPI.Path)
		if err != nil {
			closeAll(lg, closers...)
			return nil, fmt.Errorf("failed to load openapi document: %w", err)
		}
		opts.OpenAPI = spec
	}

	base := transport.NewBaseHandler(lg)
	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, rest.Handlers{
		Auth:           auth.NewHandler(base, authService),
		RBAC:           auth.NewRBACAuthorization(base),
		User:           user.NewHandler(base, svcs.users, svcs.userRoles),
		Role:           role.NewHandler(base, svcs.roles),
		Permission:     permission.NewHandler(base, svcs.permissions),
		UserRole:       userrole.NewHandler(base, svcs.userRoles),
		RolePermission: rolepermission.NewHandler(base, svcs.rolePermissions),
		Health:         rest.NewHealthHandler(healthComponents(repos, redisClient)),
	}, opts, lg)

	return &Dependencies{
		Config:   config,
		Router:   router,
		Logger:   lg,
		Services: svcs,
		closers:  closers,
	}, nil
}
