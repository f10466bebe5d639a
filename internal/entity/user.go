package entity

import (
	"strings"
	"time"
)

const (
	UserRoleSuperAdmin = "super_admin"
	UserRoleAdmin      = "admin"
	UserRolePending    = "pending"
)

// ValidRole reports whether role is one of the three known roles.
func ValidRole(role string) bool {
	switch role {
	case UserRoleSuperAdmin, UserRoleAdmin, UserRolePending:
		return true
	default:
		return false
	}
}

// DbUser represents a persisted admin account.
type DbUser struct {
	ID           uint       `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Email        string     `gorm:"column:email;type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`
	DisplayName  string     `gorm:"column:display_name;type:varchar(255)" json:"display_name"`
	Role         string     `gorm:"column:role;type:varchar(50);index;not null" json:"role"`
	IsActive     bool       `gorm:"column:is_active;not null;default:true" json:"is_active"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at" json:"last_login_at"`
}

// TableName overrides default pluralised name.
func (DbUser) TableName() string {
	return "admin_users"
}

// CanMutateContent is true for active admins and super admins.
func (u *DbUser) CanMutateContent() bool {
	if u == nil || !u.IsActive {
		return false
	}
	return u.Role == UserRoleAdmin || u.Role == UserRoleSuperAdmin
}

// IsActiveSuperAdmin is true only for an active super admin.
func (u *DbUser) IsActiveSuperAdmin() bool {
	return u != nil && u.IsActive && u.Role == UserRoleSuperAdmin
}

// NameOrEmail falls back to the email when no display name is set.
func (u *DbUser) NameOrEmail() string {
	if u == nil {
		return ""
	}
	if name := strings.TrimSpace(u.DisplayName); name != "" {
		return name
	}
	return u.Email
}

// UserSummary is a lightweight user description returned to clients.
type UserSummary struct {
	ID          uint       `json:"id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	Role        string     `json:"role"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	LastLoginAt *time.Time `json:"last_login_at"`
}

// UserToSummary 将 DbUser 转换为 UserSummary。
func UserToSummary(u *DbUser) UserSummary {
	if u == nil {
		return UserSummary{}
	}
	return UserSummary{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}

// UserQuery supports listing users with pagination.
type UserQuery struct {
	BaseParams
	Role    string `json:"role" form:"role" query:"role"`
	Keyword string `json:"keyword" form:"keyword" query:"keyword"`
}

type AuthLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      Identity  `json:"user"`
}

// Identity is the minimal assertion carried by a session.
type Identity struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type UserUpdateRequest struct {
	DisplayName *string `json:"display_name,omitempty"`
	Role        *string `json:"role,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

type UserListResponse struct {
	Users []UserSummary `json:"users"`
	Meta  *Meta         `json:"meta"`
}
