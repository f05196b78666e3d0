package memory

import (
	"context"
	"errors"

	"github.com/frahmantamala/identity-access/internal"
	"github.com/frahmantamala/identity-access/internal/core/common/validation"
	"github.com/frahmantamala/identity-access/internal/role"
	store "github.com/frahmantamala/identity-access/internal/store/memory"
)

type RoleRepository struct {
	roles *store.KeyedStore[role.Role]
}

func NewRoleRepository() role.Repository {
	return &RoleRepository{roles: store.NewKeyedStore[role.Role](nil)}
}

func (r *RoleRepository) Add(_ context.Context, ro *role.Role) (*role.Role, error) {
	stored, err := r.roles.Insert(validation.NormalizeName(ro.Name), *ro)
	if err != nil {
		return nil, translate(err)
	}
	return &stored, nil
}

func (r *RoleRepository) Find(_ context.Context, name string) (*role.Role, error) {
	ro, ok := r.roles.Lookup(validation.NormalizeName(name))
	if !ok {
		return nil, nil
	}
	return &ro, nil
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

func (r *RoleRepository) GetAll(_ context.Context) ([]*role.Role, error) {
	values := r.roles.Values()
	out := make([]*role.Role, 0, len(values))
	for i := range values {
		out = append(out, &values[i])
	}
	return out, nil
}

func (r *RoleRepository) UpdateDescription(_ context.Context, name, description string) (*role.Role, error) {
	key := validation.NormalizeName(name)
	updated, err := r.roles.Mutate(key, key, func(ro *role.Role) error {
		ro.UpdateDescription(description)
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}
	return &updated, nil
}

func (r *RoleRepository) Delete(_ context.Context, name string) error {
	_, err := r.roles.Remove(validation.NormalizeName(name))
	return translate(err)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrKeyNotFound):
		return internal.ErrRoleNotFound
	case errors.Is(err, store.ErrKeyExists):
		return internal.ErrRoleAlreadyExists
	}
	return err
}
