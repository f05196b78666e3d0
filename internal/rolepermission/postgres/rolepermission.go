package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/identity-access/internal"
	identityDatamodel "github.com/frahmantamala/identity-access/internal/core/datamodel/identity"
	"github.com/frahmantamala/identity-access/internal/rolepermission"
	"gorm.io/gorm"
)

type RolePermissionRepository struct {
	db *gorm.DB
}

func NewRolePermissionRepository(db *gorm.DB) rolepermission.Repository {
	return &RolePermissionRepository{db: db}
}

func (r *RolePermissionRepository) Add(ctx context.Context, rp rolepermission.RolePermission) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := findPair(tx, rp.RoleID, rp.PermissionID)
		if err != nil {
			return err
		}
		if existing != nil {
			return internal.ErrRolePermissionAlreadyExists
		}
		return tx.Create(rolepermission.ToDataModel(rp)).Error
	})
	return wrap(err, "failed to grant permission")
}

func (r *RolePermissionRepository) Find(ctx context.Context, roleID, permissionID string) (*rolepermission.RolePermission, error) {
	row, err := findPair(r.db.WithContext(ctx), roleID, permissionID)
	if err != nil {
		return nil, wrap(err, "failed to query role permission")
	}
	if row == nil {
		return nil, nil
	}
	found := rolepermission.FromDataModel(row)
	return &found, nil
}

func (r *RolePermissionRepository) GetAll(ctx context.Context) ([]rolepermission.RolePermission, error) {
	return r.list(ctx, "")
}

func (r *RolePermissionRepository) GetPermissionsByRole(ctx context.Context, roleID string) ([]rolepermission.RolePermission, error) {
	return r.list(ctx, "role_id = ?", roleID)
}

func (r *RolePermissionRepository) GetRolesByPermission(ctx context.Context, permissionID string) ([]rolepermission.RolePermission, error) {
	return r.list(ctx, "permission_id = ?", permissionID)
}

func (r *RolePermissionRepository) UpdatePermission(ctx context.Context, roleID, permissionID, newPermissionID string) (rolepermission.RolePermission, error) {
	var updated rolepermission.RolePermission
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := findPair(tx, roleID, permissionID)
		if err != nil {
			return err
		}
		if row == nil {
			return internal.ErrRolePermissionNotFound
		}
		if row.PermissionID == newPermissionID {
			return internal.ErrSamePermission
		}

		taken, err := findPair(tx, roleID, newPermissionID)
		if err != nil {
			return err
		}
		if taken != nil {
			return internal.ErrRolePermissionAlreadyExists
		}

		if err := tx.Model(&identityDatamodel.RolePermission{}).Where("id = ?", row.ID).Update("permission_id", newPermissionID).Error; err != nil {
			return err
		}
		updated = rolepermission.RolePermission{RoleID: row.RoleID, PermissionID: newPermissionID}
		return nil
	})
	if err != nil {
		return rolepermission.RolePermission{}, wrap(err, "failed to update role permission")
	}
	return updated, nil
}

func (r *RolePermissionRepository) Delete(ctx context.Context, roleID, permissionID string) error {
	res := r.db.WithContext(ctx).Where("role_id = ? AND permission_id = ?", roleID, permissionID).Delete(&identityDatamodel.RolePermission{})
	if res.Error != nil {
		return wrap(res.Error, "failed to revoke permission")
	}
	if res.RowsAffected == 0 {
		return internal.ErrRolePermissionNotFound
	}
	return nil
}

func (r *RolePermissionRepository) list(ctx context.Context, query string, args ...interface{}) ([]rolepermission.RolePermission, error) {
	db := r.db.WithContext(ctx).Order("id ASC")
	if query != "" {
		db = db.Where(query, args...)
	}

	var rows []*identityDatamodel.RolePermission
	if err := db.Find(&rows).Error; err != nil {
		return nil, wrap(err, "failed to list role permissions")
	}
	out := make([]rolepermission.RolePermission, 0, len(rows))
	for _, row := range rows {
		out = append(out, rolepermission.FromDataModel(row))
	}
	return out, nil
}

func findPair(db *gorm.DB, roleID, permissionID string) (*identityDatamodel.RolePermission, error) {
	var row identityDatamodel.RolePermission
	if err := db.Where("role_id = ? AND permission_id = ?", roleID, permissionID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	if _, ok := internal.IsAppError(err); ok {
		return err
	}
	return internal.NewInternalError(msg, err)
}
