package role

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/identity-access/internal"
	"github.com/frahmantamala/identity-access/internal/core/common/validation"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

func (s *Service) CreateRole(ctx context.Context, name, description string) (*Role, error) {
	name = validation.NormalizeName(name)
	if name == "" {
		return nil, internal.ErrRoleInvalidName
	}

	existing, err := s.repo.Find(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, internal.ErrRoleAlreadyExists
	}

	r, err := NewRole(name, description)
	if err != nil {
		return nil, err
	}
	created, err := s.repo.Add(ctx, r)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to add role", "role", name, "error", err)
		return nil, err
	}
	s.logger.InfoContext(ctx, "role created", "role_id", created.ID, "role", created.Name)
	return created, nil
}

func (s *Service) GetRole(ctx context.Context, name string) (*Role, error) {
	name = validation.NormalizeName(name)
	if name == "" {
		return nil, internal.ErrRoleInvalidName
	}
	return s.repo.Get(ctx, name)
}

func (s *Service) FindRole(ctx context.Context, name string) (*Role, error) {
	return s.repo.Find(ctx, validation.NormalizeName(name))
}

func (s *Service) GetAllRoles(ctx context.Context) ([]*Role, error) {
	return s.repo.GetAll(ctx)
}

// UpdateDescription replaces the description. A nil description is rejected;
// an empty one clears it.
func (s *Service) UpdateDescription(ctx context.Context, name string, description *string) (*Role, error) {
	name = validation.NormalizeName(name)
	if name == "" {
		return nil, internal.ErrRoleInvalidName
	}
	if description == nil {
		return nil, internal.ErrDescriptionRequired
	}
	updated, err := s.repo.UpdateDescription(ctx, name, *description)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "role updated", "role", updated.Name)
	return updated, nil
}

func (s *Service) DeleteRole(ctx context.Context, name string) error {
	name = validation.NormalizeName(name)
	if name == "" {
		return internal.ErrRoleInvalidName
	}
	if err := s.repo.Delete(ctx, name); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "role deleted", "role", name)
	return nil
}
