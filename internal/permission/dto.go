package permission

import (
	"time"

	"github.com/frahmantamala/identity-access/internal/core/common/validation"
)

type CreatePermissionDTO struct {
	Name        string `json:"name" validate:"required,notblank,min=2,max=50"`
	Description string `json:"description" validate:"max=255"`
}

func (d CreatePermissionDTO) Validate() error {
	if err := validation.Struct(d); err != nil {
		return err
	}
	return nil
}

// UpdatePermissionDTO keeps Description as a pointer so a missing field can be told
// apart from an empty one.
type UpdatePermissionDTO struct {
	Description *string `json:"description" validate:"omitnil,max=255"`
}

func (d UpdatePermissionDTO) Validate() error {
	if err := validation.Struct(d); err != nil {
		return err
	}
	return nil
}

type PermissionResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type PermissionListResponse struct {
	Permissions []PermissionResponse `json:"permissions"`
	Total int            `json:"total"`
}

func ToResponse(r *Permission) PermissionResponse {
	return PermissionResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func ToListResponse(permissions []*Permission) PermissionListResponse {
	out := make([]PermissionResponse, 0, len(permissions))
	for _, r := range permissions {
		out = append(out, ToResponse(r))
	}
	return PermissionListResponse{Permissions: out, Total: len(out)}
}
