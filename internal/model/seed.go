package model

import (
	"context"
	"errors"
	"fmt"
	"labsite/internal/entity"
)

// ErrSuperAdminExists is returned by SeedSuperAdmin once the site has an owner.
var ErrSuperAdminExists = errors.New("a super admin already exists")

// SeedSuperAdmin creates the first super admin. It refuses to run when one
// already exists so the command cannot be used to mint extra owners.
func SeedSuperAdmin(ctx context.Context, repo Repository, user *entity.DbUser) error {
	if repo == nil || user == nil {
		return fmt.Errorf("seed: repository and user are required")
	}
	count, err := repo.CountUsersByRole(ctx, entity.UserRoleSuperAdmin)
	if err != nil {
		return fmt.Errorf("seed: count super admins: %w", err)
	}
	if count > 0 {
		return ErrSuperAdminExists
	}
	user.Role = entity.UserRoleSuperAdmin
	user.IsActive = true
	if err := repo.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("seed: create super admin: %w", err)
	}
	return nil
}
