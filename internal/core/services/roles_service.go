package services

import (
	"context"

	"github.com/Mentor-Ntech/afriDaily/internal/adapters/persistence/repositories"
	"github.com/Mentor-Ntech/afriDaily/internal/core/domain"
)

// RolesService is the authorization service: it answers capability-role
// checks for the engines and lets admins administer grants.
type RolesService struct {
	roleRepo repositories.RoleRepository
}

// NewRolesService creates a new roles service
func NewRolesService(roleRepo repositories.RoleRepository) *RolesService {
	return &RolesService{roleRepo: roleRepo}
}

// HasRole reports whether account holds role.
func (s *RolesService) HasRole(ctx context.Context, account, role string) (bool, error) {
	return s.roleRepo.Has(ctx, account, role)
}

// Grant gives account the role. Caller must be an admin.
func (s *RolesService) Grant(ctx context.Context, caller, account, role string) error {
	if err := s.requireAdmin(ctx, caller); err != nil {
		return err
	}
	return s.roleRepo.Grant(ctx, account, role, caller)
}

// Revoke removes role from account. Caller must be an admin.
func (s *RolesService) Revoke(ctx context.Context, caller, account, role string) error {
	if err := s.requireAdmin(ctx, caller); err != nil {
		return err
	}
	return s.roleRepo.Revoke(ctx, account, role)
}

// ListRoles returns the roles held by account.
func (s *RolesService) ListRoles(ctx context.Context, account string) ([]string, error) {
	return s.roleRepo.ListByAddress(ctx, account)
}

func (s *RolesService) requireAdmin(ctx context.Context, caller string) error {
	ok, err := s.roleRepo.Has(ctx, caller, domain.RoleAdmin)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrUnauthorized
	}
	return nil
}
