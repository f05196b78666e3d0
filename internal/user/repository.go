package user

import "context"

// Repository is keyed by username, which is trimmed but case-sensitive.
// Find* return (nil, nil) when nothing matches; Get and the update methods
// fail with ErrUserNotFound instead.
type Repository interface {
	Add(ctx context.Context, u *User) (*User, error)
	Find(ctx context.Context, username string) (*User, error)
	Get(ctx context.Context, username string) (*User, error)
	GetAll(ctx context.Context) ([]*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	UpdateEmail(ctx context.Context, username, email string) (*User, error)
	UpdateUsername(ctx context.Context, username, newUsername string) (*User, error)
	UpdatePassword(ctx context.Context, username, passwordHash string) (*User, error)
	UpdateStatus(ctx context.Context, username, status string) (*User, error)
	Delete(ctx context.Context, username string) error
}
