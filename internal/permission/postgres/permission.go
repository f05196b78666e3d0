package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/identity-access/internal"
	"github.com/frahmantamala/identity-access/internal/core/common/validation"
	identityDatamodel "github.com/frahmantamala/identity-access/internal/core/datamodel/identity"
	"github.com/frahmantamala/identity-access/internal/permission"
	"gorm.io/gorm"
)

type PermissionRepository struct {
	db *gorm.DB
}

func NewPermissionRepository(db *gorm.DB) permission.Repository {
	return &PermissionRepository{db: db}
}

func (r *PermissionRepository) Add(ctx context.Context, p *permission.Permission) (*permission.Permission, error) {
	row := permission.ToDataModel(p)
	row.Name = validation.NormalizeName(row.Name)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := findByName(tx, row.Name)
		if err != nil {
			return err
		}
		if exists != nil {
			return internal.ErrPermissionAlreadyExists
		}
		return tx.Create(row).Error
	})
	if err != nil {
		return nil, wrap(err, "failed to add permission")
	}
	return permission.FromDataModel(row), nil
}

func (r *PermissionRepository) Find(ctx context.Context, name string) (*permission.Permission, error) {
	row, err := findByName(r.db.WithContext(ctx), validation.NormalizeName(name))
	if err != nil {
		return nil, wrap(err, "failed to query permission")
	}
	if row == nil {
		return nil, nil
	}
	return permission.FromDataModel(row), nil
}

func (r *PermissionRepository) Get(ctx context.Context, name string) (*permission.Permission, error) {
	p, err := r.Find(ctx, name)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, internal.ErrPermissionNotFound
	}
	return p, nil
}

func (r *PermissionRepository) GetAll(ctx context.Context) ([]*permission.Permission, error) {
	var rows []*identityDatamodel.Permission
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, wrap(err, "failed to list permissions")
	}
	out := make([]*permission.Permission, 0, len(rows))
	for _, row := range rows {
		out = append(out, permission.FromDataModel(row))
	}
	return out, nil
}

func (r *PermissionRepository) UpdateDescription(ctx context.Context, name, description string) (*permission.Permission, error) {
	var updated *permission.Permission
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := findByName(tx, validation.NormalizeName(name))
		if err != nil {
			return err
		}
		if row == nil {
			return internal.ErrPermissionNotFound
		}

		p := permission.FromDataModel(row)
		p.UpdateDescription(description)
		if err := tx.Model(&identityDatamodel.Permission{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
			"description": p.Description,
			"updated_at":  p.UpdatedAt,
		}).Error; err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, wrap(err, "failed to update permission")
	}
	return updated, nil
}

func (r *PermissionRepository) Delete(ctx context.Context, name string) error {
	res := r.db.WithContext(ctx).Where("name = ?", validation.NormalizeName(name)).Delete(&identityDatamodel.Permission{})
	if res.Error != nil {
		return wrap(res.Error, "failed to delete permission")
	}
	if res.RowsAffected == 0 {
		return internal.ErrPermissionNotFound
	}
	return nil
}

func findByName(db *gorm.DB, name string) (*identityDatamodel.Permission, error) {
	var row identityDatamodel.Permission
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
