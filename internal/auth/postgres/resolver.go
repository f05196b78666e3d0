package postgres

import (
	"context"
	"fmt"

	"github.com/frahmantamala/identity-access/internal"
	"github.com/jmoiron/sqlx"
)

const (
	rolesForUserQuery = `SELECT role_id FROM user_roles WHERE user_id = ? ORDER BY id`

	permissionsForUserQuery = `SELECT rp.permission_id
	             FROM user_roles ur
	             JOIN role_permissions rp ON rp.role_id = ur.role_id
	             WHERE ur.user_id = ?
	             ORDER BY ur.id, rp.id`
)

// Resolver answers effective-permission lookups with two queries straight
// against the relation tables instead of going through the services.
type Resolver struct {
	db *sqlx.DB
}

func NewResolver(db *sqlx.DB) *Resolver {
	return &Resolver{db: db}
}

func (r *Resolver) ResolvePermissions(ctx context.Context, userID string) ([]string, []string, error) {
	ctx, cancel := internal.WithTimeout(ctx, 0)
	defer cancel()

	roles := []string{}
	if err := r.db.SelectContext(ctx, &roles, r.db.Rebind(rolesForUserQuery), userID); err != nil {
		return nil, nil, fmt.Errorf("select roles for user %s: %w", userID, err)
	}

	var rows []string
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(permissionsForUserQuery), userID); err != nil {
		return nil, nil, fmt.Errorf("select permissions for user %s: %w", userID, err)
	}

	seen := make(map[string]struct{}, len(rows))
	permissions := make([]string, 0, len(rows))
	for _, p := range rows {
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		permissions = append(permissions, p)
	}
	return roles, permissions, nil
}
