package rolepermission

import "github.com/frahmantamala/identity-access/internal/core/common/validation"

type GrantPermissionDTO struct {
	PermissionID string `json:"permission_id" validate:"required,notblank,max=50"`
}

func (d GrantPermissionDTO) Validate() error {
	if err := validation.Struct(d); err != nil {
		return err
	}
	return nil
}

type UpdateRolePermissionDTO struct {
	NewPermissionID string `json:"new_permission_id" validate:"required,notblank,max=50"`
}

func (d UpdateRolePermissionDTO) Validate() error {
	if err := validation.Struct(d); err != nil {
		return err
	}
	return nil
}

type RolePermissionListResponse struct {
	RolePermissions []RolePermission `json:"role_permissions"`
	Total           int              `json:"total"`
}

type HasPermissionResponse struct {
	RoleID        string `json:"role_id"`
	PermissionID  string `json:"permission_id"`
	HasPermission bool   `json:"has_permission"`
}

func ToListResponse(relations []RolePermission) RolePermissionListResponse {
	if relations == nil {
		relations = []RolePermission{}
	}
	return RolePermissionListResponse{RolePermissions: relations, Total: len(relations)}
}
