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

// ContentStore keeps one content family in memory.
type ContentStore[T any, PT entity.ContentPtr[T]] struct {
	mu     sync.Mutex
	items  map[uint]T
	nextID uint
}

// NewContentStore creates an empty content store.
func NewContentStore[T any, PT entity.ContentPtr[T]]() *ContentStore[T, PT] {
	return &ContentStore[T, PT]{items: make(map[uint]T)}
}

func (s *ContentStore[T, PT]) List(_ context.Context) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := PT(&out[i]).Base(), PT(&out[j]).Base()
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID > b.ID
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return out, nil
}

func (s *ContentStore[T, PT]) Get(_ context.Context, id uint) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &item, nil
}

func (s *ContentStore[T, PT]) SlugExists(_ context.Context, slug string, excludeID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slugTaken(strings.TrimSpace(slug), excludeID), nil
}

func (s *ContentStore[T, PT]) slugTaken(slug string, excludeID uint) bool {
	for id, item := range s.items {
		if id != excludeID && PT(&item).Base().Slug == slug {
			return true
		}
	}
	return false
}

func (s *ContentStore[T, PT]) Create(_ context.Context, item *T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	base := PT(item).Base()
	if s.slugTaken(base.Slug, 0) {
		return gorm.ErrDuplicatedKey
	}
	s.nextID++
	base.ID = s.nextID
	now := time.Now()
	if base.CreatedAt.IsZero() {
		base.CreatedAt = now
	}
	if base.UpdatedAt.IsZero() {
		base.UpdatedAt = now
	}
	s.items[base.ID] = *item
	return nil
}

func (s *ContentStore[T, PT]) Save(_ context.Context, item *T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	base := PT(item).Base()
	existing, ok := s.items[base.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if s.slugTaken(base.Slug, base.ID) {
		return gorm.ErrDuplicatedKey
	}
	base.CreatedAt = PT(&existing).Base().CreatedAt
	s.items[base.ID] = *item
	return nil
}

func (s *ContentStore[T, PT]) Delete(_ context.Context, id uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return false, nil
	}
	delete(s.items, id)
	return true, nil
}
