package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/identity-access/internal"
	identityDatamodel "github.com/frahmantamala/identity-access/internal/core/datamodel/identity"
	"github.com/frahmantamala/identity-access/internal/userrole"
	"gorm.io/gorm"
)

type UserRoleRepository struct {
	db *gorm.DB
}

func NewUserRoleRepository(db *gorm.DB) userrole.Repository {
	return &UserRoleRepository{db: db}
}

func (r *UserRoleRepository) Add(ctx context.Context, ur userrole.UserRole) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := findPair(tx, ur.UserID, ur.RoleID)
		if err != nil {
			return err
		}
		if existing != nil {
			return internal.ErrUserRoleAlreadyExists
		}
		return tx.Create(userrole.ToDataModel(ur)).Error
	})
	return wrap(err, "failed to assign role")
}

func (r *UserRoleRepository) Find(ctx context.Context, userID, roleID string) (*userrole.UserRole, error) {
	row, err := findPair(r.db.WithContext(ctx), userID, roleID)
	if err != nil {
		return nil, wrap(err, "failed to query user role")
	}
	if row == nil {
		return nil, nil
	}
	found := userrole.FromDataModel(row)
	return &found, nil
}

func (r *UserRoleRepository) GetAll(ctx context.Context) ([]userrole.UserRole, error) {
	return r.list(ctx, "")
}

func (r *UserRoleRepository) GetRolesByUser(ctx context.Context, userID string) ([]userrole.UserRole, error) {
	return r.list(ctx, "user_id = ?", userID)
}

func (r *UserRoleRepository) GetUsersByRole(ctx context.Context, roleID string) ([]userrole.UserRole, error) {
	return r.list(ctx, "role_id = ?", roleID)
}

// UpdateRole rewrites the row in place so the relation keeps its position.
func (r *UserRoleRepository) UpdateRole(ctx context.Context, userID, roleID, newRoleID string) (userrole.UserRole, error) {
	var updated userrole.UserRole
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := findPair(tx, userID, roleID)
		if err != nil {
			return err
		}
		if row == nil {
			return internal.ErrUserRoleNotFound
		}
		if row.RoleID == newRoleID {
			return internal.ErrSameRole
		}

		taken, err := findPair(tx, userID, newRoleID)
		if err != nil {
			return err
		}
		if taken != nil {
			return internal.ErrUserRoleAlreadyExists
		}

		if err := tx.Model(&identityDatamodel.UserRole{}).Where("id = ?", row.ID).Update("role_id", newRoleID).Error; err != nil {
			return err
		}
		updated = userrole.UserRole{UserID: row.UserID, RoleID: newRoleID}
		return nil
	})
	if err != nil {
		return userrole.UserRole{}, wrap(err, "failed to update user role")
	}
	return updated, nil
}

func (r *UserRoleRepository) Delete(ctx context.Context, userID, roleID string) error {
	res := r.db.WithContext(ctx).Where("user_id = ? AND role_id = ?", userID, roleID).Delete(&identityDatamodel.UserRole{})
	if res.Error != nil {
		return wrap(res.Error, "failed to remove role")
	}
	if res.RowsAffected == 0 {
		return internal.ErrUserRoleNotFound
	}
	return nil
}

func (r *UserRoleRepository) list(ctx context.Context, query string, args ...interface{}) ([]userrole.UserRole, error) {
	db := r.db.WithContext(ctx).Order("id ASC")
	if query != "" {
		db = db.Where(query, args...)
	}

	var rows []*identityDatamodel.UserRole
	if err := db.Find(&rows).Error; err != nil {
		return nil, wrap(err, "failed to list user roles")
	}
	out := make([]userrole.UserRole, 0, len(rows))
	for _, row := range rows {
		out = append(out, userrole.FromDataModel(row))
	}
	return out, nil
}

func findPair(db *gorm.DB, userID, roleID string) (*identityDatamodel.UserRole, error) {
	var row identityDatamodel.UserRole
	if err := db.Where("user_id = ? AND role_id = ?", userID, roleID).Take(&row).Error; err != nil {
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
