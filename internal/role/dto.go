package role

import (
	"time"

	"github.com/frahmantamala/identity-access/internal/core/common/validation"
)

type CreateRoleDTO struct {
	Name        string `json:"name" validate:"required,notblank,min=2,max=50"`
	Description string `json:"description" validate:"max=255"`
}

func (d CreateRoleDTO) Validate() error {
	if err := validation.Struct(d); err != nil {
		return err
	}
	return nil
}

// UpdateRoleDTO keeps Description as a pointer so a missing field can be told
// apart from an empty one.
type UpdateRoleDTO struct {
	Description *string `json:"description" validate:"omitnil,max=255"`
}

func (d UpdateRoleDTO) Validate() error {
	if err := validation.Struct(d); err != nil {
		return err
	}
	return nil
}

type RoleResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type RoleListResponse struct {
	Roles []RoleResponse `json:"roles"`
	Total int            `json:"total"`
}

func ToResponse(r *Role) RoleResponse {
	return RoleResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func ToListResponse(roles []*Role) RoleListResponse {
	out := make([]RoleResponse, 0, len(roles))
	for _, r := range roles {
		out = append(out, ToResponse(r))
	}
	return RoleListResponse{Roles: out, Total: len(out)}
}
