package role

import (
	"strings"
	"time"

	"github.com/frahmantamala/identity-access/internal"
	"github.com/frahmantamala/identity-access/internal/core/common/validation"
	identityDatamodel "github.com/frahmantamala/identity-access/internal/core/datamodel/identity"
	"github.com/google/uuid"
)

type Role struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewRole stores the name in its normalized form (trimmed, lowercase).
func NewRole(name, description string) (*Role, error) {
	name = validation.NormalizeName(name)
	if name == "" {
		return nil, internal.ErrRoleInvalidName
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, internal.NewInternalError("failed to generate role id", err)
	}

	now := time.Now()
	return &Role{
		ID:          id.String(),
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (r *Role) UpdateDescription(description string) {
	r.Description = strings.TrimSpace(description)
	now := time.Now()
	if !now.After(r.UpdatedAt) {
		now = r.UpdatedAt.Add(time.Nanosecond)
	}
	r.UpdatedAt = now
}

func ToDataModel(r *Role) *identityDatamodel.Role {
	return &identityDatamodel.Role{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func FromDataModel(r *identityDatamodel.Role) *Role {
	return &Role{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
