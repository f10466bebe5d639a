// Package sql implements the model stores on top of gorm. The dialect is
// chosen by model.RepositoryFactory; nothing here depends on it.
package sql

import (
	"errors"

	"gorm.io/gorm"
)

var errNotInitialised = errors.New("repository not initialised")

// GormRepository stores accounts, access requests and contact messages.
// Content families live in GormContentStore.
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository wraps an opened and migrated connection.
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}
