package memory

import (
	"context"
	"errors"

	"github.com/frahmantamala/identity-access/internal"
	"github.com/frahmantamala/identity-access/internal/rolepermission"
	store "github.com/frahmantamala/identity-access/internal/store/memory"
)

type RolePermissionRepository struct {
	relations *store.RelationStore[rolepermission.RolePermission]
}

func NewRolePermissionRepository() rolepermission.Repository {
	return &RolePermissionRepository{relations: store.NewRelationStore(rolepermission.RolePermission.Same)}
}

func (r *RolePermissionRepository) Add(_ context.Context, rp rolepermission.RolePermission) error {
	return translate(r.relations.Add(rp))
}

func (r *RolePermissionRepository) Find(_ context.Context, roleID, permissionID string) (*rolepermission.RolePermission, error) {
	found, ok := r.relations.Find(pair(roleID, permissionID))
	if !ok {
		return nil, nil
	}
	return &found, nil
}

func (r *RolePermissionRepository) GetAll(_ context.Context) ([]rolepermission.RolePermission, error) {
	return r.relations.All(), nil
}

func (r *RolePermissionRepository) GetPermissionsByRole(_ context.Context, roleID string) ([]rolepermission.RolePermission, error) {
	return r.relations.Filter(func(rp rolepermission.RolePermission) bool { return rp.RoleID == roleID }), nil
}

func (r *RolePermissionRepository) GetRolesByPermission(_ context.Context, permissionID string) ([]rolepermission.RolePermission, error) {
	return r.relations.Filter(func(rp rolepermission.RolePermission) bool { return rp.PermissionID == permissionID }), nil
}

func (r *RolePermissionRepository) UpdatePermission(_ context.Context, roleID, permissionID, newPermissionID string) (rolepermission.RolePermission, error) {
	updated, err := r.relations.Replace(pair(roleID, permissionID), func(current rolepermission.RolePermission) (rolepermission.RolePermission, error) {
		if current.PermissionID == newPermissionID {
			return current, internal.ErrSamePermission
		}
		return rolepermission.RolePermission{RoleID: current.RoleID, PermissionID: newPermissionID}, nil
	})
	if err != nil {
		return rolepermission.RolePermission{}, translate(err)
	}
	return updated, nil
}

func (r *RolePermissionRepository) Delete(_ context.Context, roleID, permissionID string) error {
	_, err := r.relations.Remove(pair(roleID, permissionID))
	return translate(err)
}

func pair(roleID, permissionID string) func(rolepermission.RolePermission) bool {
	return func(rp rolepermission.RolePermission) bool {
		return rp.RoleID == roleID && rp.PermissionID == permissionID
	}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrKeyNotFound):
		return internal.ErrRolePermissionNotFound
	case errors.Is(err, store.ErrKeyExists):
		return internal.ErrRolePermissionAlreadyExists
	}
	return err
}
