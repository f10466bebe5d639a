package sql

import (
	"context"
	"fmt"
	"labsite/internal/entity"
)

// CreateContactMessage stores a contact form submission.
func (r *GormRepository) CreateContactMessage(ctx context.Context, msg *entity.DbContactMessage) error {
	if r == nil || r.db == nil {
		return errNotInitialised
	}
	if msg == nil {
		return fmt.Errorf("contact message is nil")
	}
	return r.db.WithContext(ctx).Create(msg).Error
}

// ListContactMessages returns the latest messages.
func (r *GormRepository) ListContactMessages(ctx context.Context, limit int) ([]entity.DbContactMessage, error) {
	if r == nil || r.db == nil {
		return nil, errNotInitialised
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var messages []entity.DbContactMessage
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Limit(limit).Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}
