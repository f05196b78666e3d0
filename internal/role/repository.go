package role

import "context"

// Repository is keyed by the normalized role name.
type Repository interface {
	Add(ctx context.Context, r *Role) (*Role, error)
	Find(ctx context.Context, name string) (*Role, error)
	Get(ctx context.Context, name string) (*Role, error)
	GetAll(ctx context.Context) ([]*Role, error)
	UpdateDescription(ctx context.Context, name, description string) (*Role, error)
	Delete(ctx context.Context, name string) error
}
