package rolepermission

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/identity-access/internal"
	"github.com/frahmantamala/identity-access/internal/core/common/validation"
	"github.com/frahmantamala/identity-access/internal/core/events"
)

type Service struct {
	repo      Repository
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(repo Repository, publisher events.Publisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, publisher: publisher, logger: logger}
}

func (s *Service) AddPermissionToRole(ctx context.Context, roleID, permissionID string) (*RolePermission, error) {
	rp, err := NewRolePermission(roleID, permissionID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Add(ctx, rp); err != nil {
		s.logger.WarnContext(ctx, "failed to grant permission", "role_id", rp.RoleID, "permission_id", rp.PermissionID, "error", err)
		return nil, err
	}

	s.logger.InfoContext(ctx, "permission granted", "role_id", rp.RoleID, "permission_id", rp.PermissionID)
	events.Emit(ctx, s.publisher, s.logger,
		events.NewRolePermissionEvent(events.EventTypeRolePermissionGranted, rp.RoleID, rp.PermissionID, ""))
	return &rp, nil
}

func (s *Service) GetAllRelations(ctx context.Context) ([]RolePermission, error) {
	return s.repo.GetAll(ctx)
}

func (s *Service) GetPermissionsByRole(ctx context.Context, roleID string) ([]RolePermission, error) {
	roleID = validation.NormalizeName(roleID)
	if roleID == "" {
		return nil, internal.ErrRelationFieldsRequired
	}
	return s.repo.GetPermissionsByRole(ctx, roleID)
}

func (s *Service) GetRolesByPermission(ctx context.Context, permissionID string) ([]RolePermission, error) {
	permissionID = validation.NormalizeName(permissionID)
	if permissionID == "" {
		return nil, internal.ErrRelationFieldsRequired
	}
	return s.repo.GetRolesByPermission(ctx, permissionID)
}

// PermissionsForRoles returns the union of the permissions granted to
// roleIDs, first occurrence order, without duplicates. Blank role ids are
// skipped.
func (s *Service) PermissionsForRoles(ctx context.Context, roleIDs []string) ([]string, error) {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, roleID := range roleIDs {
		roleID = validation.NormalizeName(roleID)
		if roleID == "" {
			continue
		}
		relations, err := s.repo.GetPermissionsByRole(ctx, roleID)
		if err != nil {
			return nil, err
		}
		for _, rel := range relations {
			if _, dup := seen[rel.PermissionID]; dup {
				continue
			}
			seen[rel.PermissionID] = struct{}{}
			out = append(out, rel.PermissionID)
		}
	}
	return out, nil
}

func (s *Service) UpdatePermissionRelation(ctx context.Context, roleID, permissionID, newPermissionID string) (*RolePermission, error) {
	current, err := NewRolePermission(roleID, permissionID)
	if err != nil {
		return nil, err
	}
	newPermissionID = validation.NormalizeName(newPermissionID)
	if newPermissionID == "" {
		return nil, internal.ErrRelationFieldsRequired
	}

	updated, err := s.repo.UpdatePermission(ctx, current.RoleID, current.PermissionID, newPermissionID)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "role permission updated", "role_id", updated.RoleID, "from", current.PermissionID, "to", updated.PermissionID)
	events.Emit(ctx, s.publisher, s.logger,
		events.NewRolePermissionEvent(events.EventTypeRolePermissionUpdated, updated.RoleID, updated.PermissionID, current.PermissionID))
	return &updated, nil
}

// RoleHasPermission answers false instead of failing when either id is blank.
func (s *Service) RoleHasPermission(ctx context.Context, roleID, permissionID string) (bool, error) {
	rp, err := NewRolePermission(roleID, permissionID)
	if err != nil {
		return false, nil
	}
	found, err := s.repo.Find(ctx, rp.RoleID, rp.PermissionID)
	if err != nil {
		return false, err
	}
	return found != nil, nil
}

func (s *Service) RemovePermissionFromRole(ctx context.Context, roleID, permissionID string) error {
	rp, err := NewRolePermission(roleID, permissionID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, rp.RoleID, rp.PermissionID); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "permission revoked", "role_id", rp.RoleID, "permission_id", rp.PermissionID)
	events.Emit(ctx, s.publisher, s.logger,
		events.NewRolePermissionEvent(events.EventTypeRolePermissionRevoked, rp.RoleID, rp.PermissionID, ""))
	return nil
}
