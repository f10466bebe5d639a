package sql

import (
	"context"
	"fmt"
	"labsite/internal/entity"
	"strings"
	"time"

	"gorm.io/gorm"
)

// CreateUser persists a new admin account.
func (r *GormRepository) CreateUser(ctx context.Context, user *entity.DbUser) error {
	if r == nil || r.db == nil {
		return errNotInitialised
	}
	if user == nil {
		return fmt.Errorf("user is nil")
	}
	return r.db.WithContext(ctx).Create(user).Error
}

// UpdateUser updates an existing account.
func (r *GormRepository) UpdateUser(ctx context.Context, id uint, updates entity.UserUpdates) error {
	if r == nil || r.db == nil {
		return errNotInitialised
	}
	if id == 0 {
		return fmt.Errorf("invalid user")
	}
	if updates.IsEmpty() {
		return nil
	}
	return r.db.WithContext(ctx).Model(&entity.DbUser{}).Where("id = ?", id).Updates(updates.ToMap()).Error
}

// TouchLastLogin records a successful login.
func (r *GormRepository) TouchLastLogin(ctx context.Context, id uint, at time.Time) error {
	if r == nil || r.db == nil {
		return errNotInitialised
	}
	return r.db.WithContext(ctx).Model(&entity.DbUser{}).Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}

// GetUserByEmail loads an account by its exact email.
func (r *GormRepository) GetUserByEmail(ctx context.Context, email string) (*entity.DbUser, error) {
	if r == nil || r.db == nil {
		return nil, errNotInitialised
	}
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return nil, gorm.ErrRecordNotFound
	}

	var user entity.DbUser
	if err := r.db.WithContext(ctx).Where("email = ?", trimmed).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByID loads an account by ID.
func (r *GormRepository) GetUserByID(ctx context.Context, id uint) (*entity.DbUser, error) {
	if r == nil || r.db == nil {
		return nil, errNotInitialised
	}
	if id == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	var user entity.DbUser
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers returns paginated accounts.
func (r *GormRepository) ListUsers(ctx context.Context, params *entity.UserQuery) ([]entity.DbUser, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, errNotInitialised
	}

	query := r.db.WithContext(ctx).Model(&entity.DbUser{})
	if params != nil {
		if trimmed := strings.TrimSpace(params.Role); trimmed != "" {
			query = query.Where("role = ?", trimmed)
		}
		if keyword := strings.TrimSpace(params.Keyword); keyword != "" {
			kw := "%" + strings.ToLower(keyword) + "%"
			query = query.Where("LOWER(email) LIKE ? OR LOWER(display_name) LIKE ?", kw, kw)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	var page, pageSize int64
	if params != nil {
		page, pageSize = params.Page, params.PageSize
	}
	offset, limit, meta := entity.PageWindow(page, pageSize, total)
	users := []entity.DbUser{}
	if limit == 0 {
		return users, &meta, nil
	}
	if err := query.Order("id DESC").Offset(int(offset)).Limit(int(limit)).Find(&users).Error; err != nil {
		return nil, nil, err
	}
	return users, &meta, nil
}

// DeleteUser removes an account by ID.
func (r *GormRepository) DeleteUser(ctx context.Context, id uint) error {
	if r == nil || r.db == nil {
		return errNotInitialised
	}
	if id == 0 {
		return fmt.Errorf("invalid user id")
	}
	result := r.db.WithContext(ctx).Delete(&entity.DbUser{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountUsersByRole counts accounts with the role, or all accounts when role is empty.
func (r *GormRepository) CountUsersByRole(ctx context.Context, role string) (int64, error) {
	if r == nil || r.db == nil {
		return 0, errNotInitialised
	}
	query := r.db.WithContext(ctx).Model(&entity.DbUser{})
	if role != "" {
		query = query.Where("role = ?", role)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
