package model

import (
	"context"
	"labsite/internal/entity"
	"time"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when no row matches.
	ErrNotFound = gorm.ErrRecordNotFound
	// ErrDuplicate is returned when a unique constraint is violated.
	ErrDuplicate = gorm.ErrDuplicatedKey
)

// Repository 定义数据库操作接口
type Repository interface {
	// 管理员账户
	CreateUser(ctx context.Context, user *entity.DbUser) error
	UpdateUser(ctx context.Context, id uint, updates entity.UserUpdates) error
	TouchLastLogin(ctx context.Context, id uint, at time.Time) error
	GetUserByEmail(ctx context.Context, email string) (*entity.DbUser, error)
	GetUserByID(ctx context.Context, id uint) (*entity.DbUser, error)
	ListUsers(ctx context.Context, params *entity.UserQuery) ([]entity.DbUser, *entity.Meta, error)
	DeleteUser(ctx context.Context, id uint) error
	CountUsersByRole(ctx context.Context, role string) (int64, error)

	// 账户申请
	CreateAccessRequest(ctx context.Context, req *entity.DbAccessRequest) error
	GetAccessRequest(ctx context.Context, id uint) (*entity.DbAccessRequest, error)
	ListAccessRequests(ctx context.Context, status string) ([]entity.DbAccessRequest, error)
	// ReviewAccessRequest moves a pending request to its terminal state. It
	// returns ErrNotFound when no pending request with that id exists.
	ReviewAccessRequest(ctx context.Context, id uint, review entity.AccessReview) error

	// 联系表单
	CreateContactMessage(ctx context.Context, msg *entity.DbContactMessage) error
	ListContactMessages(ctx context.Context, limit int) ([]entity.DbContactMessage, error)
}

// ContentStore persists one content family.
type ContentStore[T any] interface {
	// List returns every row, newest first.
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id uint) (*T, error)
	// SlugExists reports whether another row (id != excludeID) uses slug.
	SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error)
	Create(ctx context.Context, item *T) error
	// Save overwrites the row with item's id. ErrNotFound when it is absent.
	Save(ctx context.Context, item *T) error
	// Delete reports whether a row was removed.
	Delete(ctx context.Context, id uint) (bool, error)
}

// Stores bundles every store the HTTP layer needs.
type Stores struct {
	Repo Repository

	Datasets          ContentStore[entity.Dataset]
	Prototypes        ContentStore[entity.Prototype]
	WorkingPapers     ContentStore[entity.WorkingPaper]
	SocialPosts       ContentStore[entity.SocialPost]
	LiteratureReviews ContentStore[entity.LiteratureReview]
	ResearchThemes    ContentStore[entity.ResearchTheme]
	Updates           ContentStore[entity.Update]
	ResearchArtifacts ContentStore[entity.ResearchArtifact]
	ExternalPapers    ContentStore[entity.ExternalPaper]
}
