package service

import (
	"context"
	"errors"
	"labsite/internal/entity"
	"labsite/internal/model"
)

// Authorizer answers role questions about a session identity. Every answer
// re-reads the account, so deactivation or demotion applies to live sessions.
type Authorizer struct {
	repo model.Repository
}

func NewAuthorizer(repo model.Repository) *Authorizer {
	return &Authorizer{repo: repo}
}

// IsAdmin: role admin or super_admin, and active.
func (a *Authorizer) IsAdmin(ctx context.Context, identity *entity.Identity) (bool, error) {
	user, err := a.account(ctx, identity)
	if err != nil {
		return false, err
	}
	return user.CanMutateContent(), nil
}

// IsSuperAdmin: role super_admin, and active.
func (a *Authorizer) IsSuperAdmin(ctx context.Context, identity *entity.Identity) (bool, error) {
	user, err := a.account(ctx, identity)
	if err != nil {
		return false, err
	}
	return user.IsActiveSuperAdmin(), nil
}

// CanManageUsers is the same check as IsSuperAdmin.
func (a *Authorizer) CanManageUsers(ctx context.Context, identity *entity.Identity) (bool, error) {
	return a.IsSuperAdmin(ctx, identity)
}

// account loads the live record behind identity. A missing identity or a
// deleted account yields (nil, nil); the predicates treat nil as no rights.
func (a *Authorizer) account(ctx context.Context, identity *entity.Identity) (*entity.DbUser, error) {
	if identity == nil || identity.ID == 0 {
		return nil, nil
	}
	user, err := a.repo.GetUserByID(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, nil
		}
		return nil, errInternal("failed to load account", err)
	}
	return user, nil
}

func (a *Authorizer) requireSuperAdmin(ctx context.Context, identity *entity.Identity) error {
	if identity == nil {
		return newError(KindAuthentication, "authentication required")
	}
	ok, err := a.CanManageUsers(ctx, identity)
	if err != nil {
		return err
	}
	if !ok {
		return errForbidden()
	}
	return nil
}
