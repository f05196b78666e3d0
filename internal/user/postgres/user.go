package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/frahmantamala/identity-access/internal"
	identityDatamodel "github.com/frahmantamala/identity-access/internal/core/datamodel/identity"
	"github.com/frahmantamala/identity-access/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Add(ctx context.Context, u *user.User) (*user.User, error) {
	row := user.ToDataModel(u)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := findOne(tx, "username = ?", strings.TrimSpace(u.Username))
		if err != nil {
			return err
		}
		if exists != nil {
			return internal.ErrUserAlreadyExists
		}
		owner, err := findOne(tx, "email = ?", strings.TrimSpace(u.Email))
		if err != nil {
			return err
		}
		if owner != nil {
			return internal.ErrEmailAlreadyRegistered
		}
		return tx.Create(row).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost a race against a concurrent insert; the unique indexes decide.
		taken, lookupErr := findOne(r.db.WithContext(ctx), "username = ?", strings.TrimSpace(u.Username))
		if lookupErr == nil && taken != nil {
			return nil, internal.ErrUserAlreadyExists
		}
		return nil, internal.ErrEmailAlreadyRegistered
	}
	if err != nil {
		return nil, wrap(err, "failed to add user")
	}
	return user.FromDataModel(row), nil
}

func (r *UserRepository) Find(ctx context.Context, username string) (*user.User, error) {
	return r.findBy(ctx, "username = ?", strings.TrimSpace(username))
}

func (r *UserRepository) Get(ctx context.Context, username string) (*user.User, error) {
	u, err := r.Find(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, internal.ErrUserNotFound
	}
	return u, nil
}

func (r *UserRepository) GetAll(ctx context.Context) ([]*user.User, error) {
	var rows []*identityDatamodel.User
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, wrap(err, "failed to list users")
	}
	out := make([]*user.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, user.FromDataModel(row))
	}
	return out, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.findBy(ctx, "email = ?", strings.TrimSpace(email))
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	return r.findBy(ctx, "id = ?", id)
}

func (r *UserRepository) UpdateEmail(ctx context.Context, username, email string) (*user.User, error) {
	updated, err := r.mutate(ctx, username, func(_ *gorm.DB, u *user.User) error {
		return u.UpdateEmail(email)
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, internal.ErrEmailAlreadyRegistered
	}
	return updated, err
}

func (r *UserRepository) UpdateUsername(ctx context.Context, username, newUsername string) (*user.User, error) {
	updated, err := r.mutate(ctx, username, func(tx *gorm.DB, u *user.User) error {
		target := strings.TrimSpace(newUsername)
		if target != u.Username {
			taken, err := findOne(tx, "username = ?", target)
			if err != nil {
				return err
			}
			if taken != nil {
				return internal.ErrUserAlreadyExists
			}
		}
		return u.UpdateUsername(newUsername)
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, internal.ErrUserAlreadyExists
	}
	return updated, err
}

func (r *UserRepository) UpdatePassword(ctx context.Context, username, passwordHash string) (*user.User, error) {
	return r.mutate(ctx, username, func(_ *gorm.DB, u *user.User) error {
		return u.UpdatePassword(passwordHash)
	})
}

func (r *UserRepository) UpdateStatus(ctx context.Context, username, status string) (*user.User, error) {
	return r.mutate(ctx, username, func(_ *gorm.DB, u *user.User) error {
		return u.ApplyStatus(status)
	})
}

func (r *UserRepository) Delete(ctx context.Context, username string) error {
	res := r.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).Delete(&identityDatamodel.User{})
	if res.Error != nil {
		return wrap(res.Error, "failed to delete user")
	}
	if res.RowsAffected == 0 {
		return internal.ErrUserNotFound
	}
	return nil
}

// mutate loads the row, applies fn through the domain entity and saves the
// result, all inside one transaction.
func (r *UserRepository) mutate(ctx context.Context, username string, fn func(tx *gorm.DB, u *user.User) error) (*user.User, error) {
	var updated *user.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := findOne(tx, "username = ?", strings.TrimSpace(username))
		if err != nil {
			return err
		}
		if row == nil {
			return internal.ErrUserNotFound
		}

		u := user.FromDataModel(row)
		if err := fn(tx, u); err != nil {
			return err
		}

		next := user.ToDataModel(u)
		if err := tx.Model(&identityDatamodel.User{}).Where("id = ?", row.ID).Updates(map[string]interface{}{
			"username":      next.Username,
			"email":         next.Email,
			"password_hash": next.PasswordHash,
			"status":        next.Status,
			"updated_at":    next.UpdatedAt,
		}).Error; err != nil {
			return err
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, wrap(err, "failed to update user")
	}
	return updated, nil
}

func (r *UserRepository) findBy(ctx context.Context, query string, arg interface{}) (*user.User, error) {
	row, err := findOne(r.db.WithContext(ctx), query, arg)
	if err != nil {
		return nil, wrap(err, "failed to query user")
	}
	if row == nil {
		return nil, nil
	}
	return user.FromDataModel(row), nil
}

func findOne(db *gorm.DB, query string, arg interface{}) (*identityDatamodel.User, error) {
	var row identityDatamodel.User
	err := db.Where(query, arg).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// wrap passes domain errors through and hides driver errors behind an
// internal error. Unique violations stay visible to errors.Is so callers can
// map them to the matching conflict.
func wrap(err error, msg string) error {
	if _, ok := internal.IsAppError(err); ok {
		return err
	}
	return internal.NewInternalError(msg, err)
}
