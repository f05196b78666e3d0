package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/frahmantamala/identity-access/internal/auth"
	"github.com/frahmantamala/identity-access/pkg/logger"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed roles, permissions and users",
	Long:  `Create the roles, permissions, users and relations listed in a YAML manifest. Existing records are left alone, so seeding twice is safe.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		lg := logger.Configure(os.Stdout, cfg.Observability.Logging.Format, cfg.Observability.Logging.Level)

		manifest, err := readSeedManifest(seedFile)
		if err != nil {
			return err
		}

		repos, err := openRepositories(cfg.Database, lg)
		if err != nil {
			return err
		}
		defer closeAll(lg, repos.close)

		svcs := newServices(repos, cfg, lg)
		report, err := seedIdentity(cmd.Context(), svcs, manifest, lg)
		svcs.bus.Wait()
		if err != nil {
			return err
		}

		lg.Info("seed complete",
			"permissions_created", report.Permissions,
			"roles_created", report.Roles,
			"users_created", report.Users,
			"relations_created", report.Relations)
		return nil
	},
}

type seedManifest struct {
	Permissions []seedNamed `yaml:"permissions"`
	Roles       []seedRole  `yaml:"roles"`
	Users       []seedUser  `yaml:"users"`
}

type seedNamed struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type seedRole struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Permissions []string `yaml:"permissions"`
}

type seedUser struct {
	Username string   `yaml:"username"`
	Email    string   `yaml:"email"`
	Password string   `yaml:"password"`
	Status   string   `yaml:"status"`
	Roles    []string `yaml:"roles"`
}

// seedReport counts what a run created, not what already existed.
type seedReport struct {
	Permissions int
	Roles       int
	Users       int
	Relations   int
}

func readSeedManifest(path string) (*seedManifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed manifest: %w", err)
	}
	var m seedManifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse seed manifest %s: %w", path, err)
	}
	return &m, nil
}

// seedIdentity goes through the services, so names are normalized and
// validated exactly as they are over HTTP.
func seedIdentity(ctx context.Context, svcs *services, m *seedManifest, lg *slog.Logger) (seedReport, error) {
	var report seedReport

	for _, p := range m.Permissions {
		existing, err := svcs.permissions.FindPermission(ctx, p.Name)
		if err != nil {
			return report, err
		}
		if existing != nil {
			continue
		}
		if _, err := svcs.permissions.CreatePermission(ctx, p.Name, p.Description); err != nil {
			return report, fmt.Errorf("seed permission %q: %w", p.Name, err)
		}
		report.Permissions++
	}

	for _, r := range m.Roles {
		existing, err := svcs.roles.FindRole(ctx, r.Name)
		if err != nil {
			return report, err
		}
		var roleID string
		if existing == nil {
			created, err := svcs.roles.CreateRole(ctx, r.Name, r.Description)
			if err != nil {
				return report, fmt.Errorf("seed role %q: %w", r.Name, err)
			}
			roleID = created.Name
			report.Roles++
		} else {
			roleID = existing.Name
		}

		for _, permissionID := range r.Permissions {
			has, err := svcs.rolePermissions.RoleHasPermission(ctx, roleID, permissionID)
			if err != nil {
				return report, err
			}
			if has {
				continue
			}
			if _, err := svcs.rolePermissions.AddPermissionToRole(ctx, roleID, permissionID); err != nil {
				return report, fmt.Errorf("grant %q to role %q: %w", permissionID, roleID, err)
			}
			report.Relations++
		}
	}

	for _, su := range m.Users {
		u, err := svcs.users.FindUser(ctx, su.Username)
		if err != nil {
			return report, err
		}
		if u == nil {
			if u, err = svcs.users.CreateUser(ctx, su.Username, su.Email, su.Password); err != nil {
				return report, fmt.Errorf("seed user %q: %w", su.Username, err)
			}
			report.Users++
			lg.Info("seeded user", "username", u.Username)
		}

		status := su.Status
		if status == "" {
			status = "active"
		}
		if string(u.Status) != status {
			if u, err = svcs.users.ChangeStatus(ctx, u.Username, status); err != nil {
				return report, fmt.Errorf("set status of %q: %w", su.Username, err)
			}
		}

		for _, roleID := range su.Roles {
			has, err := svcs.userRoles.UserHasRole(ctx, u.ID, roleID)
			if err != nil {
				return report, err
			}
			if has {
				continue
			}
			if _, err := svcs.userRoles.AssignRole(ctx, u.ID, roleID); err != nil {
				return report, fmt.Errorf("assign %q to user %q: %w", roleID, su.Username, err)
			}
			report.Relations++
		}
	}

	managers, err := svcs.rolePermissions.GetRolesByPermission(ctx, auth.PermissionManageIdentity)
	if err != nil {
		return report, err
	}
	if len(managers) == 0 {
		lg.Warn("no role grants the management permission, the management API is unreachable",
			"permission", auth.PermissionManageIdentity)
	}

	return report, nil
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "seed.yml", "seed manifest")
}
