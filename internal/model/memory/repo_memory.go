// Package memory keeps every record in process memory. It backs DBType=memory
// for local previews and stands in for the database in tests.
package memory

import (
	"context"
	"labsite/internal/entity"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"
)

// Repository is an in-memory implementation of model.Repository.
type Repository struct {
	mu       sync.Mutex
	now      func() time.Time
	users    map[uint]entity.DbUser
	requests map[uint]entity.DbAccessRequest
	messages []entity.DbContactMessage
	nextID   uint
}

// NewRepository creates an empty repository.
func NewRepository() *Repository {
	return &Repository{
		now:      time.Now,
		users:    make(map[uint]entity.DbUser),
		requests: make(map[uint]entity.DbAccessRequest),
	}
}

func (r *Repository) id() uint {
	r.nextID++
	return r.nextID
}

func (r *Repository) CreateUser(_ context.Context, user *entity.DbUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	now := r.now()
	user.ID = r.id()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user
	return nil
}

func (r *Repository) UpdateUser(_ context.Context, id uint, updates entity.UserUpdates) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	updates.Apply(&user)
	user.UpdatedAt = r.now()
	r.users[id] = user
	return nil
}

func (r *Repository) TouchLastLogin(_ context.Context, id uint, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.LastLoginAt = &at
	r.users[id] = user
	return nil
}

func (r *Repository) GetUserByEmail(_ context.Context, email string) (*entity.DbUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	trimmed := strings.TrimSpace(email)
	for _, user := range r.users {
		if user.Email == trimmed {
			out := user
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *Repository) GetUserByID(_ context.Context, id uint) (*entity.DbUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &user, nil
}

func (r *Repository) ListUsers(_ context.Context, params *entity.UserQuery) ([]entity.DbUser, *entity.Meta, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []entity.DbUser
	for _, user := range r.users {
		if params != nil {
			if role := strings.TrimSpace(params.Role); role != "" && user.Role != role {
				continue
			}
			if kw := strings.ToLower(strings.TrimSpace(params.Keyword)); kw != "" &&
				!strings.Contains(strings.ToLower(user.Email), kw) &&
				!strings.Contains(strings.ToLower(user.DisplayName), kw) {
				continue
			}
		}
		matched = append(matched, user)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	var page, pageSize int64
	if params != nil {
		page, pageSize = params.Page, params.PageSize
	}
	offset, limit, meta := entity.PageWindow(page, pageSize, int64(len(matched)))
	out := make([]entity.DbUser, 0, limit)
	out = append(out, matched[offset:offset+limit]...)
	return out, &meta, nil
}

func (r *Repository) DeleteUser(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *Repository) CountUsersByRole(_ context.Context, role string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, user := range r.users {
		if role == "" || user.Role == role {
			count++
		}
	}
	return count, nil
}

func (r *Repository) CreateAccessRequest(_ context.Context, req *entity.DbAccessRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.requests {
		if existing.Email == req.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	req.ID = r.id()
	if req.CreatedAt.IsZero() {
		req.CreatedAt = r.now()
	}
	if req.Status == "" {
		req.Status = entity.AccessStatusPending
	}
	r.requests[req.ID] = *req
	return nil
}

func (r *Repository) GetAccessRequest(_ context.Context, id uint) (*entity.DbAccessRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &req, nil
}

func (r *Repository) ListAccessRequests(_ context.Context, status string) ([]entity.DbAccessRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.DbAccessRequest, 0, len(r.requests))
	for _, req := range r.requests {
		if status != "" && req.Status != status {
			continue
		}
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *Repository) ReviewAccessRequest(_ context.Context, id uint, review entity.AccessReview) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok || req.Status != entity.AccessStatusPending {
		return gorm.ErrRecordNotFound
	}
	reviewer := review.ReviewedBy
	reviewedAt := review.ReviewedAt
	req.Status = review.Status
	req.ReviewedBy = &reviewer
	req.ReviewedAt = &reviewedAt
	req.ReviewNotes = review.Notes
	r.requests[id] = req
	return nil
}

func (r *Repository) CreateContactMessage(_ context.Context, msg *entity.DbContactMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg.ID = r.id()
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = r.now()
	}
	r.messages = append(r.messages, *msg)
	return nil
}

func (r *Repository) ListContactMessages(_ context.Context, limit int) ([]entity.DbContactMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit <= 0 || limit > len(r.messages) {
		limit = len(r.messages)
	}
	out := make([]entity.DbContactMessage, 0, limit)
	for i := len(r.messages) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.messages[i])
	}
	return out, nil
}
