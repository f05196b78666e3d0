package userrole

import "github.com/frahmantamala/identity-access/internal/core/common/validation"

type AssignRoleDTO struct {
	RoleID string `json:"role_id" validate:"required,notblank,max=50"`
}

func (d AssignRoleDTO) Validate() error {
	if err := validation.Struct(d); err != nil {
		return err
	}
	return nil
}

type UpdateUserRoleDTO struct {
	NewRoleID string `json:"new_role_id" validate:"required,notblank,max=50"`
}

func (d UpdateUserRoleDTO) Validate() error {
	if err := validation.Struct(d); err != nil {
		return err
	}
	return nil
}

type UserRoleListResponse struct {
	UserRoles []UserRole `json:"user_roles"`
	Total     int        `json:"total"`
}

type HasRoleResponse struct {
	UserID  string `json:"user_id"`
	RoleID  string `json:"role_id"`
	HasRole bool   `json:"has_role"`
}

func ToListResponse(relations []UserRole) UserRoleListResponse {
	if relations == nil {
		relations = []UserRole{}
	}
	return UserRoleListResponse{UserRoles: relations, Total: len(relations)}
}
