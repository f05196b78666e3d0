package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/identity-access/internal"
	"github.com/frahmantamala/identity-access/internal/core/common/validation"
	identityDatamodel "github.com/frahmantamala/identity-access/internal/core/datamodel/identity"
	"github.com/frahmantamala/identity-access/internal/role"
	"gorm.io/gorm"
)

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) role.Repository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) Add(ctx context.Context, ro *role.Role) (*role.Role, error) {
	row := role.ToDataModel(ro)
	row.Name = validation.NormalizeName(row.Name)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := findByName(tx, row.Name)
		if err != nil {
			return err
		}
		if exists != nil {
			return internal.ErrRoleAlreadyExists
		}
		return tx.Create(row).Error
	})
	if err != nil {
		return nil, wrap(err, "failed to add role")
	}
	return role.FromDataModel(row), nil
}

func (r *RoleRepository) Find(ctx context.Context, name string) (*role.Role, error) {
	row, err := findByName(r.db.WithContext(ctx), validation.NormalizeName(name))
	if err != nil {
		return nil, wrap(err, "failed to query role")
	}
	if row == nil {
		return nil, nil
	}
	return role.FromDataModel(row), nil
}

func (r *RoleRepository) Get(ctx context.Context, name string) (*role.Role, error) {
	ro, err := r.Find(ctx, name)
	if err != nil {
		return nil, err
	}
	if ro == nil {
		return nil, internal.ErrRoleNotFound
	}
	return ro, nil
}

func (r *RoleRepository) GetAll(ctx context.Context) ([]*role.Role, error) {
	var rows []*identityDatamodel.Role
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, wrap(err, "failed to list roles")
	}
	out := make([]*role.Role, 0, len(rows))
	for _, row := range rows {
		out = append(out, role.FromDataModel(row))
	}
	return out, nil
}

func (r *RoleRepository) UpdateDescription(ctx context.Context, name, description string) (*role.Role, error) {
	var updated *role.Role
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := findByName(tx, validation.NormalizeName(name))
		if err != nil {
			return err
		}
		if row == nil {
			return internal.ErrRoleNotFound
		}

		ro := role.FromDataModel(row)
		ro.UpdateDescription(description)
		if err := tx.Model(&identityDatamodel.Role{}).Where("id = ?", ro.ID).Updates(map[string]interface{}{
			"description": ro.Description,
			"updated_at":  ro.UpdatedAt,
		}).Error; err != nil {
			return err
		}
		updated = ro
		return nil
	})
	if err != nil {
		return nil, wrap(err, "failed to update role")
	}
	return updated, nil
}

func (r *RoleRepository) Delete(ctx context.Context, name string) error {
	res := r.db.WithContext(ctx).Where("name = ?", validation.NormalizeName(name)).Delete(&identityDatamodel.Role{})
	if res.Error != nil {
		return wrap(res.Error, "failed to delete role")
	}
	if res.RowsAffected == 0 {
		return internal.ErrRoleNotFound
	}
	return nil
}

func findByName(db *gorm.DB, name string) (*identityDatamodel.Role, error) {
	var row identityDatamodel.Role
	if err := db.Where("name = ?", name).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func wrap(err error, msg string) error {
	if _, ok := internal.IsAppError(err); ok {
		return err
	}
	return internal.NewInternalError(msg, err)
}
