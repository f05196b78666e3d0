package permission

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

func (s *Service) CreatePermission(ctx context.Context, name, description string) (*Permission, error) {
	name = validation.NormalizeName(name)
	if name == "" {
		return nil, internal.ErrPermissionInvalidName
	}

	existing, err := s.repo.Find(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, internal.ErrPermissionAlreadyExists
	}

	r, err := NewPermission(name, description)
	if err != nil {
		return nil, err
	}
	created, err := s.repo.Add(ctx, r)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to add permission", "permission", name, "error", err)
		return nil, err
	}
	s.logger.InfoContext(ctx, "permission created", "permission_id", created.ID, "permission", created.Name)
	return created, nil
}

func (s *Service) GetPermission(ctx context.Context, name string) (*Permission, error) {
	name = validation.NormalizeName(name)
	if name == "" {
		return nil, internal.ErrPermissionInvalidName
	}
	return s.repo.Get(ctx, name)
}

func (s *Service) FindPermission(ctx context.Context, name string) (*Permission, error) {
	return s.repo.Find(ctx, validation.NormalizeName(name))
}

func (s *Service) GetAllPermissions(ctx context.Context) ([]*Permission, error) {
	return s.repo.GetAll(ctx)
}

// UpdateDescription replaces the description. A nil description is rejected;
// an empty one clears it.
func (s *Service) UpdateDescription(ctx context.Context, name string, description *string) (*Permission, error) {
	name = validation.NormalizeName(name)
	if name == "" {
		return nil, internal.ErrPermissionInvalidName
	}
	if description == nil {
		return nil, internal.ErrDescriptionRequired
	}
	updated, err := s.repo.UpdateDescription(ctx, name, *description)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "permission updated", "permission", updated.Name)
	return updated, nil
}

func (s *Service) DeletePermission(ctx context.Context, name string) error {
	name = validation.NormalizeName(name)
	if name == "" {
		return internal.ErrPermissionInvalidName
	}
	if err := s.repo.Delete(ctx, name); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "permission deleted", "permission", name)
	return nil
}
