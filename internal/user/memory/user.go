package memory

import (
	"context"
	"errors"
	"strings"

	"github.com/frahmantamala/identity-access/internal"
	store "github.com/frahmantamala/identity-access/internal/store/memory"
	"github.com/frahmantamala/identity-access/internal/user"
)

type UserRepository struct {
	users *store.KeyedStore[user.User]
}

func NewUserRepository() user.Repository {
	return &UserRepository{users: store.NewKeyedStore(user.User.Clone)}
}

func key(username string) string {
	return strings.TrimSpace(username)
}

func (r *UserRepository) Add(_ context.Context, u *user.User) (*user.User, error) {
	email := u.Email
	stored, err := r.users.InsertUnique(key(u.Username), *u, func(other user.User) bool {
		return other.Email == email
	})
	if err != nil {
		return nil, translate(err)
	}
	return &stored, nil
}

func (r *UserRepository) Find(_ context.Context, username string) (*user.User, error) {
	u, ok := r.users.Lookup(key(username))
	if !ok {
		return nil, nil
	}
	return &u, nil
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

func (r *UserRepository) GetAll(_ context.Context) ([]*user.User, error) {
	values := r.users.Values()
	out := make([]*user.User, 0, len(values))
	for i := range values {
		out = append(out, &values[i])
	}
	return out, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*user.User, error) {
	email = strings.TrimSpace(email)
	u, ok := r.users.First(func(u user.User) bool { return u.Email == email })
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*user.User, error) {
	u, ok := r.users.First(func(u user.User) bool { return u.ID == id })
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepository) UpdateEmail(_ context.Context, username, email string) (*user.User, error) {
	updated, err := r.users.MutateUnique(key(username), key(username), func(u *user.User) error {
		return u.UpdateEmail(email)
	}, func(other, next user.User) bool {
		return other.Email == next.Email
	})
	if err != nil {
		return nil, translate(err)
	}
	return &updated, nil
}

func (r *UserRepository) UpdateUsername(_ context.Context, username, newUsername string) (*user.User, error) {
	return r.mutate(username, newUsername, func(u *user.User) error {
		return u.UpdateUsername(newUsername)
	})
}

func (r *UserRepository) UpdatePassword(_ context.Context, username, passwordHash string) (*user.User, error) {
	return r.mutate(username, username, func(u *user.User) error {
		return u.UpdatePassword(passwordHash)
	})
}

func (r *UserRepository) UpdateStatus(_ context.Context, username, status string) (*user.User, error) {
	return r.mutate(username, username, func(u *user.User) error {
		return u.ApplyStatus(status)
	})
}

func (r *UserRepository) Delete(_ context.Context, username string) error {
	_, err := r.users.Remove(key(username))
	return translate(err)
}

func (r *UserRepository) mutate(username, newUsername string, fn func(*user.User) error) (*user.User, error) {
	updated, err := r.users.Mutate(key(username), key(newUsername), fn)
	if err != nil {
		return nil, translate(err)
	}
	return &updated, nil
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrKeyNotFound):
		return internal.ErrUserNotFound
	case errors.Is(err, store.ErrKeyExists):
		return internal.ErrUserAlreadyExists
	case errors.Is(err, store.ErrConflict):
		return internal.ErrEmailAlreadyRegistered
	}
	return err
}
