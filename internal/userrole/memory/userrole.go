package memory

import (
	"context"
	"errors"

	"github.com/frahmantamala/identity-access/internal"
	store "github.com/frahmantamala/identity-access/internal/store/memory"
	"github.com/frahmantamala/identity-access/internal/userrole"
)

type UserRoleRepository struct {
	relations *store.RelationStore[userrole.UserRole]
}

func NewUserRoleRepository() userrole.Repository {
	return &UserRoleRepository{relations: store.NewRelationStore(userrole.UserRole.Same)}
}

func (r *UserRoleRepository) Add(_ context.Context, ur userrole.UserRole) error {
	return translate(r.relations.Add(ur))
}

func (r *UserRoleRepository) Find(_ context.Context, userID, roleID string) (*userrole.UserRole, error) {
	found, ok := r.relations.Find(pair(userID, roleID))
	if !ok {
		return nil, nil
	}
	return &found, nil
}

func (r *UserRoleRepository) GetAll(_ context.Context) ([]userrole.UserRole, error) {
	return r.relations.All(), nil
}

func (r *UserRoleRepository) GetRolesByUser(_ context.Context, userID string) ([]userrole.UserRole, error) {
	return r.relations.Filter(func(ur userrole.UserRole) bool { return ur.UserID == userID }), nil
}

func (r *UserRoleRepository) GetUsersByRole(_ context.Context, roleID string) ([]userrole.UserRole, error) {
	return r.relations.Filter(func(ur userrole.UserRole) bool { return ur.RoleID == roleID }), nil
}

func (r *UserRoleRepository) UpdateRole(_ context.Context, userID, roleID, newRoleID string) (userrole.UserRole, error) {
	updated, err := r.relations.Replace(pair(userID, roleID), func(current userrole.UserRole) (userrole.UserRole, error) {
		if current.RoleID == newRoleID {
			return current, internal.ErrSameRole
		}
		return userrole.UserRole{UserID: current.UserID, RoleID: newRoleID}, nil
	})
	if err != nil {
		return userrole.UserRole{}, translate(err)
	}
	return updated, nil
}

func (r *UserRoleRepository) Delete(_ context.Context, userID, roleID string) error {
	_, err := r.relations.Remove(pair(userID, roleID))
	return translate(err)
}

func pair(userID, roleID string) func(userrole.UserRole) bool {
	return func(ur userrole.UserRole) bool {
		return ur.UserID == userID && ur.RoleID == roleID
	}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrKeyNotFound):
		return internal.ErrUserRoleNotFound
	case errors.Is(err, store.ErrKeyExists):
		return internal.ErrUserRoleAlreadyExists
	}
	return err
}
