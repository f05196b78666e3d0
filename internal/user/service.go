package user

import (
	"context"
	"log/slog"
	"strings"

	"github.com/frahmantamala/identity-access/internal"
	"github.com/frahmantamala/identity-access/internal/core/common/validation"
	"github.com/frahmantamala/identity-access/internal/core/events"
)

// PasswordHasher hashes and verifies plaintext passwords.
type PasswordHasher interface {
	HashPassword(plain string) (string, error)
	VerifyPassword(plain, hash string) bool
}

type Service struct {
	repo      Repository
	hasher    PasswordHasher
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(repo Repository, hasher PasswordHasher, publisher events.Publisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		hasher:    hasher,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateUser registers an inactive user. Username and email must both be
// unused; the password is hashed before it reaches the repository.
func (s *Service) CreateUser(ctx context.Context, username, email, password string) (*User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" {
		return nil, internal.ErrUserInvalidUsername
	}
	if !validation.IsEmail(email) {
		return nil, internal.ErrUserInvalidEmail
	}
	if len(password) < MinPasswordLength {
		return nil, internal.ErrUserInvalidPassword
	}

	existing, err := s.repo.Find(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, internal.ErrUserAlreadyExists
	}

	byEmail, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if byEmail != nil {
		return nil, internal.ErrEmailAlreadyRegistered
	}

	hash, err := s.hasher.HashPassword(password)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to hash password", "username", username, "error", err)
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	u, err := NewUser(username, email, hash)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Add(ctx, u)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to add user", "username", username, "error", err)
		return nil, err
	}

	s.logger.InfoContext(ctx, "user created", "user_id", created.ID, "username", created.Username)
	events.Emit(ctx, s.publisher, s.logger, events.NewUserCreatedEvent(created.ID, created.Username, created.Email))
	return created, nil
}

func (s *Service) GetUser(ctx context.Context, username string) (*User, error) {
	return s.repo.Get(ctx, username)
}

func (s *Service) FindUser(ctx context.Context, username string) (*User, error) {
	return s.repo.Find(ctx, username)
}

func (s *Service) GetUserByID(ctx context.Context, id string) (*User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, internal.ErrUserNotFound
	}
	return u, nil
}

func (s *Service) GetAllUsers(ctx context.Context) ([]*User, error) {
	return s.repo.GetAll(ctx)
}

func (s *Service) UpdateUsername(ctx context.Context, username, newUsername string) (*User, error) {
	newUsername = strings.TrimSpace(newUsername)
	if newUsername == "" {
		return nil, internal.ErrUserInvalidUsername
	}

	current, err := s.repo.Get(ctx, username)
	if err != nil {
		return nil, err
	}
	if current.Username == newUsername {
		return nil, internal.ErrSameUsername
	}

	taken, err := s.repo.Find(ctx, newUsername)
	if err != nil {
		return nil, err
	}
	if taken != nil {
		return nil, internal.ErrUserAlreadyExists
	}

	updated, err := s.repo.UpdateUsername(ctx, current.Username, newUsername)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "username updated", "user_id", updated.ID, "username", updated.Username)
	return updated, nil
}

func (s *Service) UpdateEmail(ctx context.Context, username, newEmail string) (*User, error) {
	newEmail = strings.TrimSpace(newEmail)

	current, err := s.repo.Get(ctx, username)
	if err != nil {
		return nil, err
	}
	if current.Email == newEmail {
		return nil, internal.ErrSameEmail
	}
	if !validation.IsEmail(newEmail) {
		return nil, internal.ErrUserInvalidEmail
	}

	owner, err := s.repo.FindByEmail(ctx, newEmail)
	if err != nil {
		return nil, err
	}
	if owner != nil && owner.ID != current.ID {
		return nil, internal.ErrEmailAlreadyRegistered
	}

	updated, err := s.repo.UpdateEmail(ctx, current.Username, newEmail)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "email updated", "user_id", updated.ID, "username", updated.Username)
	return updated, nil
}

// UpdatePassword requires the caller to prove the current password first.
func (s *Service) UpdatePassword(ctx context.Context, username, currentPassword, newPassword string) (*User, error) {
	current, err := s.repo.Get(ctx, username)
	if err != nil {
		return nil, err
	}
	if !s.hasher.VerifyPassword(currentPassword, current.PasswordHash) {
		s.logger.WarnContext(ctx, "password change rejected", "username", current.Username)
		return nil, internal.ErrWrongPassword
	}
	if len(newPassword) < MinPasswordLength {
		return nil, internal.ErrUserInvalidPassword
	}

	hash, err := s.hasher.HashPassword(newPassword)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to hash password", "username", current.Username, "error", err)
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	updated, err := s.repo.UpdatePassword(ctx, current.Username, hash)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "password updated", "user_id", updated.ID)
	return updated, nil
}

func (s *Service) ActivateUser(ctx context.Context, username string) (*User, error) {
	return s.ChangeStatus(ctx, username, string(StatusActive))
}

func (s *Service) DeactivateUser(ctx context.Context, username string) (*User, error) {
	return s.ChangeStatus(ctx, username, string(StatusInactive))
}

func (s *Service) SuspendUser(ctx context.Context, username string) (*User, error) {
	return s.ChangeStatus(ctx, username, string(StatusSuspended))
}

func (s *Service) BlockUser(ctx context.Context, username string) (*User, error) {
	return s.ChangeStatus(ctx, username, string(StatusBlocked))
}

func (s *Service) ChangeStatus(ctx context.Context, username, status string) (*User, error) {
	current, err := s.repo.Get(ctx, username)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateStatus(ctx, current.Username, status)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user status changed",
		"user_id", updated.ID,
		"from", current.Status,
		"to", updated.Status)
	events.Emit(ctx, s.publisher, s.logger,
		events.NewUserStatusChangedEvent(updated.ID, updated.Username, string(current.Status), string(updated.Status)))
	return updated, nil
}

// VerifyUserPassword checks candidate against the stored hash without
// changing anything.
func (s *Service) VerifyUserPassword(ctx context.Context, username, candidate string) (bool, error) {
	u, err := s.repo.Get(ctx, username)
	if err != nil {
		return false, err
	}
	return s.hasher.VerifyPassword(candidate, u.PasswordHash), nil
}

func (s *Service) DeleteUser(ctx context.Context, username string) error {
	current, err := s.repo.Get(ctx, username)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, current.Username); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "user deleted", "user_id", current.ID, "username", current.Username)
	events.Emit(ctx, s.publisher, s.logger, events.NewUserDeletedEvent(current.ID, current.Username))
	return nil
}
