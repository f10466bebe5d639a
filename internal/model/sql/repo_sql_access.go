package sql

import (
	"context"
	"fmt"
	"labsite/internal/entity"
	"strings"

	"gorm.io/gorm"
)

// CreateAccessRequest stores a new pending request.
func (r *GormRepository) CreateAccessRequest(ctx context.Context, req *entity.DbAccessRequest) error {
	if r == nil || r.db == nil {
		return errNotInitialised
	}
	if req == nil {
		return fmt.Errorf("access request is nil")
	}
	return r.db.WithContext(ctx).Create(req).Error
}

// GetAccessRequest loads a request by ID.
func (r *GormRepository) GetAccessRequest(ctx context.Context, id uint) (*entity.DbAccessRequest, error) {
	if r == nil || r.db == nil {
		return nil, errNotInitialised
	}
	var req entity.DbAccessRequest
	if err := r.db.WithContext(ctx).First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// ListAccessRequests returns requests newest first, optionally filtered by status.
func (r *GormRepository) ListAccessRequests(ctx context.Context, status string) ([]entity.DbAccessRequest, error) {
	if r == nil || r.db == nil {
		return nil, errNotInitialised
	}
	query := r.db.WithContext(ctx).Model(&entity.DbAccessRequest{})
	if trimmed := strings.TrimSpace(status); trimmed != "" {
		query = query.Where("status = ?", trimmed)
	}
	var requests []entity.DbAccessRequest
	if err := query.Order("created_at DESC, id DESC").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// ReviewAccessRequest only touches rows that are still pending.
func (r *GormRepository) ReviewAccessRequest(ctx context.Context, id uint, review entity.AccessReview) error {
	if r == nil || r.db == nil {
		return errNotInitialised
	}
	result := r.db.WithContext(ctx).Model(&entity.DbAccessRequest{}).
		Where("id = ? AND status = ?", id, entity.AccessStatusPending).
		Updates(map[string]interface{}{
			"status":       review.Status,
			"reviewed_by":  review.ReviewedBy,
			"reviewed_at":  review.ReviewedAt,
			"review_notes": review.Notes,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
