package auth

import (
	"context"
)

type RoleLister interface {
	RoleIDsForUser(ctx context.Context, userID string) ([]string, error)
}

type PermissionLister interface {
	PermissionsForRoles(ctx context.Context, roleIDs []string) ([]string, error)
}

// ServiceResolver walks user -> roles -> permissions through the relation services.
type ServiceResolver struct {
	roles       RoleLister
	permissions PermissionLister
}

func NewServiceResolver(roles RoleLister, permissions PermissionLister) *ServiceResolver {
	return &ServiceResolver{roles: roles, permissions: permissions}
}

func (r *ServiceResolver) ResolvePermissions(ctx context.Context, userID string) ([]string, []string, error) {
	roles, err := r.roles.RoleIDsForUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if len(roles) == 0 {
		return []string{}, []string{}, nil
	}

	permissions, err := r.permissions.PermissionsForRoles(ctx, roles)
	if err != nil {
		return nil, nil, err
	}
	return roles, permissions, nil
}
