package service

import (
	"context"
	"errors"
	"labsite/internal/entity"
	"labsite/internal/model"
	"strings"

	"github.com/sirupsen/logrus"
)

// UserService 管理员账户管理（仅限超级管理员）
type UserService struct {
	repo  model.Repository
	authz *Authorizer
}

func NewUserService(repo model.Repository, authz *Authorizer) *UserService {
	return &UserService{repo: repo, authz: authz}
}

// List returns a page of accounts.
func (s *UserService) List(ctx context.Context, actor *entity.Identity, query entity.UserQuery) (*entity.UserListResponse, error) {
	if err := s.authz.requireSuperAdmin(ctx, actor); err != nil {
		return nil, err
	}
	if role := strings.TrimSpace(query.Role); role != "" && !entity.ValidRole(role) {
		return nil, errValidation("unknown role %q", role)
	}
	if query.PageSize > 100 {
		query.PageSize = 100
	}
	users, meta, err := s.repo.ListUsers(ctx, &query)
	if err != nil {
		logrus.WithError(err).Error("failed to list users")
		return nil, errInternal("failed to list users", err)
	}
	summaries := make([]entity.UserSummary, 0, len(users))
	for i := range users {
		summaries = append(summaries, entity.UserToSummary(&users[i]))
	}
	return &entity.UserListResponse{Users: summaries, Meta: meta}, nil
}

// Update changes display name, role or active flag. A super admin cannot
// demote or deactivate their own account.
func (s *UserService) Update(ctx context.Context, actor *entity.Identity, id uint, req entity.UserUpdateRequest) (*entity.UserSummary, error) {
	if err := s.authz.requireSuperAdmin(ctx, actor); err != nil {
		return nil, err
	}
	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}

	var updates entity.UserUpdates
	if req.DisplayName != nil {
		name := strings.TrimSpace(*req.DisplayName)
		updates.DisplayName = &name
	}
	if req.Role != nil {
		role := strings.TrimSpace(*req.Role)
		if !entity.ValidRole(role) {
			return nil, errValidation("role must be one of super_admin, admin, pending")
		}
		if id == actor.ID && role != entity.UserRoleSuperAdmin {
			return nil, errValidation("you cannot change your own role")
		}
		updates.Role = &role
	}
	if req.IsActive != nil {
		if id == actor.ID && !*req.IsActive {
			return nil, errValidation("you cannot deactivate your own account")
		}
		active := *req.IsActive
		updates.IsActive = &active
	}
	if updates.IsEmpty() {
		return nil, errValidation("no fields to update")
	}

	if err := s.repo.UpdateUser(ctx, id, updates); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, errNotFound("user not found")
		}
		logrus.WithError(err).WithField("user_id", id).Error("failed to update user")
		return nil, errInternal("failed to update user", err)
	}

	updated, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"user_id":   id,
		"role":      updated.Role,
		"is_active": updated.IsActive,
		"actor":     actor.ID,
	}).Info("user updated")
	summary := entity.UserToSummary(updated)
	return &summary, nil
}

// Delete removes an account permanently.
func (s *UserService) Delete(ctx context.Context, actor *entity.Identity, id uint) error {
	if err := s.authz.requireSuperAdmin(ctx, actor); err != nil {
		return err
	}
	if id == actor.ID {
		return errValidation("you cannot delete your own account")
	}
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return errNotFound("user not found")
		}
		logrus.WithError(err).WithField("user_id", id).Error("failed to delete user")
		return errInternal("failed to delete user", err)
	}
	logrus.WithFields(logrus.Fields{"user_id": id, "actor": actor.ID}).Info("user deleted")
	return nil
}

func (s *UserService) load(ctx context.Context, id uint) (*entity.DbUser, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, errNotFound("user not found")
		}
		return nil, errInternal("failed to load user", err)
	}
	return user, nil
}
