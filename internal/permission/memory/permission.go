package memory

import (
	"context"
	"errors"

	"github.com/frahmantamala/identity-access/internal"
	"github.com/frahmantamala/identity-access/internal/core/common/validation"
	"github.com/frahmantamala/identity-access/internal/permission"
	store "github.com/frahmantamala/identity-access/internal/store/memory"
)

type PermissionRepository struct {
	permissions *store.KeyedStore[permission.Permission]
}

func NewPermissionRepository() permission.Repository {
	return &PermissionRepository{permissions: store.NewKeyedStore[permission.Permission](nil)}
}

func (r *PermissionRepository) Add(_ context.Context, p *permission.Permission) (*permission.Permission, error) {
	stored, err := r.permissions.Insert(validation.NormalizeName(p.Name), *p)
	if err != nil {
		return nil, translate(err)
	}
	return &stored, nil
}

func (r *PermissionRepository) Find(_ context.Context, name string) (*permission.Permission, error) {
	p, ok := r.permissions.Lookup(validation.NormalizeName(name))
	if !ok {
		return nil, nil
	}
	return &p, nil
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

func (r *PermissionRepository) GetAll(_ context.Context) ([]*permission.Permission, error) {
	values := r.permissions.Values()
	out := make([]*permission.Permission, 0, len(values))
	for i := range values {
		out = append(out, &values[i])
	}
	return out, nil
}

func (r *PermissionRepository) UpdateDescription(_ context.Context, name, description string) (*permission.Permission, error) {
	key := validation.NormalizeName(name)
	updated, err := r.permissions.Mutate(key, key, func(p *permission.Permission) error {
		p.UpdateDescription(description)
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}
	return &updated, nil
}

func (r *PermissionRepository) Delete(_ context.Context, name string) error {
	_, err := r.permissions.Remove(validation.NormalizeName(name))
	return translate(err)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrKeyNotFound):
		return internal.ErrPermissionNotFound
	case errors.Is(err, store.ErrKeyExists):
		return internal.ErrPermissionAlreadyExists
	}
	return err
}
