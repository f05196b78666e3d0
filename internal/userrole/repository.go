package userrole

import "context"

// Repository keeps relations in insertion order. Find returns (nil, nil) when
// the pair is absent; Update and Delete fail with ErrUserRoleNotFound.
type Repository interface {
	Add(ctx context.Context, ur UserRole) error
	Find(ctx context.Context, userID, roleID string) (*UserRole, error)
	GetAll(ctx context.Context) ([]UserRole, error)
	GetRolesByUser(ctx context.Context, userID string) ([]UserRole, error)
	GetUsersByRole(ctx context.Context, roleID string) ([]UserRole, error)
	UpdateRole(ctx context.Context, userID, roleID, newRoleID string) (UserRole, error)
	Delete(ctx context.Context, userID, roleID string) error
}
