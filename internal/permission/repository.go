package permission

import "context"

// Repository is keyed by the normalized permission name.
type Repository interface {
	Add(ctx context.Context, r *Permission) (*Permission, error)
	Find(ctx context.Context, name string) (*Permission, error)
	Get(ctx context.Context, name string) (*Permission, error)
	GetAll(ctx context.Context) ([]*Permission, error)
	UpdateDescription(ctx context.Context, name, description string) (*Permission, error)
	Delete(ctx context.Context, name string) error
}
