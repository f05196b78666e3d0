package rolepermission

import "context"

type Repository interface {
	Add(ctx context.Context, rp RolePermission) error
	Find(ctx context.Context, roleID, permissionID string) (*RolePermission, error)
	GetAll(ctx context.Context) ([]RolePermission, error)
	GetPermissionsByRole(ctx context.Context, roleID string) ([]RolePermission, error)
	GetRolesByPermission(ctx context.Context, permissionID string) ([]RolePermission, error)
	UpdatePermission(ctx context.Context, roleID, permissionID, newPermissionID string) (RolePermission, error)
	Delete(ctx context.Context, roleID, permissionID string) error
}
