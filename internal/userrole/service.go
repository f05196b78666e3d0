package userrole

import (
	"context"
	"log/slog"
	"strings"

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

func (s *Service) AssignRole(ctx context.Context, userID, roleID string) (*UserRole, error) {
	ur, err := NewUserRole(userID, roleID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Add(ctx, ur); err != nil {
		s.logger.WarnContext(ctx, "failed to assign role", "user_id", ur.UserID, "role_id", ur.RoleID, "error", err)
		return nil, err
	}

	s.logger.InfoContext(ctx, "role assigned", "user_id", ur.UserID, "role_id", ur.RoleID)
	events.Emit(ctx, s.publisher, s.logger, events.NewUserRoleEvent(events.EventTypeUserRoleAssigned, ur.UserID, ur.RoleID, ""))
	return &ur, nil
}

func (s *Service) GetUserRoles(ctx context.Context, userID string) ([]UserRole, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, internal.ErrRelationFieldsRequired
	}
	return s.repo.GetRolesByUser(ctx, userID)
}

func (s *Service) GetUsersByRole(ctx context.Context, roleID string) ([]UserRole, error) {
	roleID = validation.NormalizeName(roleID)
	if roleID == "" {
		return nil, internal.ErrRelationFieldsRequired
	}
	return s.repo.GetUsersByRole(ctx, roleID)
}

func (s *Service) GetAllRelations(ctx context.Context) ([]UserRole, error) {
	return s.repo.GetAll(ctx)
}

// RoleIDsForUser lists the role ids held by userID, in assignment order.
func (s *Service) RoleIDsForUser(ctx context.Context, userID string) ([]string, error) {
	relations, err := s.GetUserRoles(ctx, userID)
	if err != nil {
		return nil, err
	}
	return RoleIDs(relations), nil
}

// UpdateUserRole swaps oldRoleID for newRoleID, keeping the relation's place.
func (s *Service) UpdateUserRole(ctx context.Context, userID, oldRoleID, newRoleID string) (*UserRole, error) {
	current, err := NewUserRole(userID, oldRoleID)
	if err != nil {
		return nil, err
	}
	newRoleID = validation.NormalizeName(newRoleID)
	if newRoleID == "" {
		return nil, internal.ErrRelationFieldsRequired
	}

	updated, err := s.repo.UpdateRole(ctx, current.UserID, current.RoleID, newRoleID)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user role updated", "user_id", updated.UserID, "from", current.RoleID, "to", updated.RoleID)
	events.Emit(ctx, s.publisher, s.logger,
		events.NewUserRoleEvent(events.EventTypeUserRoleUpdated, updated.UserID, updated.RoleID, current.RoleID))
	return &updated, nil
}

// UserHasRole answers false instead of failing when either id is blank.
func (s *Service) UserHasRole(ctx context.Context, userID, roleID string) (bool, error) {
	ur, err := NewUserRole(userID, roleID)
	if err != nil {
		return false, nil
	}
	found, err := s.repo.Find(ctx, ur.UserID, ur.RoleID)
	if err != nil {
		return false, err
	}
	return found != nil, nil
}

func (s *Service) RemoveRole(ctx context.Context, userID, roleID string) error {
	ur, err := NewUserRole(userID, roleID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, ur.UserID, ur.RoleID); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "role removed", "user_id", ur.UserID, "role_id", ur.RoleID)
	events.Emit(ctx, s.publisher, s.logger, events.NewUserRoleEvent(events.EventTypeUserRoleRemoved, ur.UserID, ur.RoleID, ""))
	return nil
}
