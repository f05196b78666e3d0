package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/identity-access/internal"
	"github.com/frahmantamala/identity-access/internal/auth"
	authPostgres "github.com/frahmantamala/identity-access/internal/auth/postgres"
	identityDatamodel "github.com/frahmantamala/identity-access/internal/core/datamodel/identity"
	"github.com/frahmantamala/identity-access/internal/core/events"
	"github.com/frahmantamala/identity-access/internal/metrics"
	"github.com/frahmantamala/identity-access/internal/permission"
	permissionMemory "github.com/frahmantamala/identity-access/internal/permission/memory"
	permissionPostgres "github.com/frahmantamala/identity-access/internal/permission/postgres"
	"github.com/frahmantamala/identity-access/internal/role"
	roleMemory "github.com/frahmantamala/identity-access/internal/role/memory"
	rolePostgres "github.com/frahmantamala/identity-access/internal/role/postgres"
	"github.com/frahmantamala/identity-access/internal/rolepermission"
	rolePermissionMemory "github.com/frahmantamala/identity-access/internal/rolepermission/memory"
	rolePermissionPostgres "github.com/frahmantamala/identity-access/internal/rolepermission/postgres"
	redisStore "github.com/frahmantamala/identity-access/internal/store/redis"
	"github.com/frahmantamala/identity-access/internal/transport/rest"
	"github.com/frahmantamala/identity-access/internal/user"
	userMemory "github.com/frahmantamala/identity-access/internal/user/memory"
	userPostgres "github.com/frahmantamala/identity-access/internal/user/postgres"
	"github.com/frahmantamala/identity-access/internal/userrole"
	userRoleMemory "github.com/frahmantamala/identity-access/internal/userrole/memory"
	userRolePostgres "github.com/frahmantamala/identity-access/internal/userrole/postgres"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// repositories bundles one storage backend. sqlDB is nil for the memory driver.
type repositories struct {
	users           user.Repository
	roles           role.Repository
	permissions     permission.Repository
	userRoles       userrole.Repository
	rolePermissions rolepermission.Repository

	sqlDB *sqlx.DB
	close func() error
}

func openRepositories(cfg internal.DatabaseConfig, logger *slog.Logger) (*repositories, error) {
	if cfg.Driver == internal.DriverMemory {
		logger.Warn("using in-memory storage, data is lost on restart")
		return &repositories{
			users:           userMemory.NewUserRepository(),
			roles:           roleMemory.NewRoleRepository(),
			permissions:     permissionMemory.NewPermissionRepository(),
			userRoles:       userRoleMemory.NewUserRoleRepository(),
			rolePermissions: rolePermissionMemory.NewRolePermissionRepository(),
			close:           func() error { return nil },
		}, nil
	}

	db, sqlxDriver, err := openGorm(cfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	return &repositories{
		users:           userPostgres.NewUserRepository(db),
		roles:           rolePostgres.NewRoleRepository(db),
		permissions:     permissionPostgres.NewPermissionRepository(db),
		userRoles:       userRolePostgres.NewUserRoleRepository(db),
		rolePermissions: rolePermissionPostgres.NewRolePermissionRepository(db),
		sqlDB:           sqlx.NewDb(sqlDB, sqlxDriver),
		close:           sqlDB.Close,
	}, nil
}

// openGorm connects gorm and returns the sqlx driver name matching its
// placeholder style. The sqlite schema is created with AutoMigrate; postgres
// relies on the goose migrations.
func openGorm(cfg internal.DatabaseConfig) (*gorm.DB, string, error) {
	gormCfg := &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	}

	var (
		db         *gorm.DB
		sqlxDriver string
		err        error
	)
	switch cfg.Driver {
	case internal.DriverPostgres:
		db, err = gorm.Open(postgres.Open(cfg.GetDSN()), gormCfg)
		sqlxDriver = "pgx"
	case internal.DriverSQLite:
		db, err = gorm.Open(sqlite.Open(cfg.GetDSN()), gormCfg)
		sqlxDriver = "sqlite3"
	default:
		return nil, "", fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if cfg.Driver == internal.DriverSQLite {
		// one long-lived connection keeps :memory: databases alive and shared
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
		sqlDB.SetConnMaxIdleTime(0)
		if err := db.AutoMigrate(identityDatamodel.All()...); err != nil {
			_ = sqlDB.Close()
			return nil, "", fmt.Errorf("failed to migrate sqlite schema: %w", err)
		}
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, "", fmt.Errorf("failed to ping database: %w", err)
	}
	return db, sqlxDriver, nil
}

type services struct {
	bus             *events.EventBus
	users           *user.Service
	roles           *role.Service
	permissions     *permission.Service
	userRoles       *userrole.Service
	rolePermissions *rolepermission.Service
	hasher          *auth.Hasher
}

// newServices wires the domain services over repos. Every service publishes
// to one bus, which feeds the audit log and, when enabled, the event counter.
func newServices(repos *repositories, cfg *internal.Config, logger *slog.Logger) *services {
	bus := events.NewEventBus(logger)
	events.RegisterAuditLog(bus, logger)
	if cfg.Observability.Metrics.Enabled {
		metrics.Register()
		metrics.SubscribeEvents(bus)
	}

	hasher := auth.NewHasher(cfg.Security.BCryptCost)
	return &services{
		bus:             bus,
		hasher:          hasher,
		users:           user.NewService(repos.users, hasher, bus, logger),
		roles:           role.NewService(repos.roles, logger),
		permissions:     permission.NewService(repos.permissions, logger),
		userRoles:       userrole.NewService(repos.userRoles, bus, logger),
		rolePermissions: rolepermission.NewService(repos.rolePermissions, bus, logger),
	}
}

// newResolver prefers the single-query SQL resolver when a database is
// available and walks the relation services otherwise.
func newResolver(repos *repositories, svcs *services) auth.PermissionResolver {
	if repos.sqlDB != nil {
		return authPostgres.NewResolver(repos.sqlDB)
	}
	return auth.NewServiceResolver(svcs.userRoles, svcs.rolePermissions)
}

// newRevoker returns a Redis-backed revoker when enabled, plus its client so
// the caller can close it and probe it from /health.
func newRevoker(ctx context.Context, cfg internal.RedisConfig, logger *slog.Logger) (auth.Revoker, *redis.Client, error) {
	if !cfg.Enabled {
		logger.Info("token revocation kept in process")
		return auth.NewMemoryRevoker(), nil, nil
	}
	client, err := redisStore.Connect(ctx, redisStore.Config{
		Addr:    cfg.Addr,
		DB:      cfg.DB,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return nil, nil, err
	}
	logger.Info("token revocation backed by redis", "addr", cfg.Addr)
	return auth.NewRedisRevoker(client), client, nil
}

func healthComponents(repos *repositories, redisClient *redis.Client) map[string]rest.Pinger {
	components := map[string]rest.Pinger{}
	if repos.sqlDB != nil {
		components["database"] = repos.sqlDB
	}
	if redisClient != nil {
		components["redis"] = rest.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}
	return components
}

func closeAll(logger *slog.Logger, closers ...func() error) {
	var errs []error
	for _, c := range closers {
		if c == nil {
			continue
		}
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		logger.Error("failed to release resources", "error", err)
	}
}

const startupTimeout = 10 * time.Second
