package permission

import (
	"strings"
	"time"

	"github.com/frahmantamala/identity-access/internal"
	"github.com/frahmantamala/identity-access/internal/core/common/validation"
	identityDatamodel "github.com/frahmantamala/identity-access/internal/core/datamodel/identity"
	"github.com/google/uuid"
)

type Permission struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewPermission stores the name in its normalized form (trimmed, lowercase).
func NewPermission(name, description string) (*Permission, error) {
	name = validation.NormalizeName(name)
	if name == "" {
		return nil, internal.ErrPermissionInvalidName
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, internal.NewInternalError("failed to generate permission id", err)
	}

	now := time.Now()
	return &Permission{
		ID:          id.String(),
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (p *Permission) UpdateDescription(description string) {
	p.Description = strings.TrimSpace(description)
	now := time.Now()
	if !now.After(p.UpdatedAt) {
		now = p.UpdatedAt.Add(time.Nanosecond)
	}
	p.UpdatedAt = now
}

func ToDataModel(p *Permission) *identityDatamodel.Permission {
	return &identityDatamodel.Permission{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func FromDataModel(p *identityDatamodel.Permission) *Permission {
	return &Permission{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
