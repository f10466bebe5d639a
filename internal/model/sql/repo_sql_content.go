package sql

import (
	"context"
	"fmt"
	"labsite/internal/entity"
	"strings"

	"gorm.io/gorm"
)

// GormContentStore stores one content family in its own table.
type GormContentStore[T any, PT entity.ContentPtr[T]] struct {
	db *gorm.DB
}

// NewContentStore creates a content store for T.
func NewContentStore[T any, PT entity.ContentPtr[T]](db *gorm.DB) *GormContentStore[T, PT] {
	return &GormContentStore[T, PT]{db: db}
}

// List returns every row ordered by recency.
func (s *GormContentStore[T, PT]) List(ctx context.Context) ([]T, error) {
	if s == nil || s.db == nil {
		return nil, errNotInitialised
	}
	var items []T
	if err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Get loads a row by ID.
func (s *GormContentStore[T, PT]) Get(ctx context.Context, id uint) (*T, error) {
	if s == nil || s.db == nil {
		return nil, errNotInitialised
	}
	var item T
	if err := s.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// SlugExists checks for a slug collision, ignoring excludeID.
func (s *GormContentStore[T, PT]) SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error) {
	if s == nil || s.db == nil {
		return false, errNotInitialised
	}
	query := s.db.WithContext(ctx).Model(new(T)).Where("slug = ?", strings.TrimSpace(slug))
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a row. A slug collision surfaces as gorm.ErrDuplicatedKey.
func (s *GormContentStore[T, PT]) Create(ctx context.Context, item *T) error {
	if s == nil || s.db == nil {
		return errNotInitialised
	}
	if item == nil {
		return fmt.Errorf("item is nil")
	}
	return s.db.WithContext(ctx).Create(item).Error
}

// Save writes every column except id and created_at.
func (s *GormContentStore[T, PT]) Save(ctx context.Context, item *T) error {
	if s == nil || s.db == nil {
		return errNotInitialised
	}
	if item == nil || PT(item).Base().ID == 0 {
		return gorm.ErrRecordNotFound
	}
	result := s.db.WithContext(ctx).Model(item).Select("*").Omit("id", "created_at").Updates(item)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a row by ID.
func (s *GormContentStore[T, PT]) Delete(ctx context.Context, id uint) (bool, error) {
	if s == nil || s.db == nil {
		return false, errNotInitialised
	}
	result := s.db.WithContext(ctx).Delete(new(T), id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
