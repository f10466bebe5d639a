package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"labsite/internal/entity"
	"labsite/internal/model"
	"strings"

	"github.com/sirupsen/logrus"
)

// Filters are the query parameters of a listing request. "q" is a free-text
// search; the other keys are defined per content family.
type Filters map[string]string

// ContentService implements list/get/create/update/delete for one content
// family. Authorization happens before these methods are called.
type ContentService[T any, PT entity.ContentPtr[T]] struct {
	kind  ContentKind[T]
	store model.ContentStore[T]
	clock Clock
}

func NewContentService[T any, PT entity.ContentPtr[T]](kind ContentKind[T], store model.ContentStore[T], clock Clock) *ContentService[T, PT] {
	return &ContentService[T, PT]{kind: kind, store: store, clock: clockOrSystem(clock)}
}

// Resource is the URL segment the family is served under.
func (s *ContentService[T, PT]) Resource() string {
	return s.kind.Resource
}

// List fetches the whole table (newest first) and filters it in memory.
func (s *ContentService[T, PT]) List(ctx context.Context, filters Filters) ([]T, error) {
	items, err := s.store.List(ctx)
	if err != nil {
		logrus.WithError(err).WithField("resource", s.kind.Resource).Error("failed to list content")
		return nil, errInternal("failed to list "+s.kind.Resource, err)
	}
	out := make([]T, 0, len(items))
	for i := range items {
		item := &items[i]
		PT(item).Normalize()
		if s.kind.matches(item, filters) {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (s *ContentService[T, PT]) Get(ctx context.Context, id uint) (*T, error) {
	item, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, s.storeError(err, "load")
	}
	PT(item).Normalize()
	return item, nil
}

// Create decodes raw as a new record, validates it and inserts it.
func (s *ContentService[T, PT]) Create(ctx context.Context, raw []byte) (*T, error) {
	item := new(T)
	if _, err := decodePayload(raw, item); err != nil {
		return nil, err
	}
	base := PT(item).Base()
	*base = entity.ContentBase{Slug: base.Slug}
	PT(item).Normalize()

	if err := s.check(ctx, item, 0, true); err != nil {
		return nil, err
	}
	now := s.clock.Now()
	base.CreatedAt = now
	base.UpdatedAt = now

	if err := s.store.Create(ctx, item); err != nil {
		return nil, s.storeError(err, "create")
	}
	return item, nil
}

// Update overlays raw onto the stored record. The slug is only re-checked
// when the payload carries one.
func (s *ContentService[T, PT]) Update(ctx context.Context, id uint, raw []byte) (*T, error) {
	item, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, s.storeError(err, "load")
	}
	// fresh slices, so decoding cannot write through to a cached copy
	PT(item).Normalize()
	original := *PT(item).Base()

	fields, err := decodePayload(raw, item)
	if err != nil {
		return nil, err
	}
	base := PT(item).Base()
	base.ID = original.ID
	base.CreatedAt = original.CreatedAt
	base.UpdatedAt = s.clock.Now()
	PT(item).Normalize()

	_, slugSent := fields["slug"]
	if err := s.check(ctx, item, id, slugSent); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, item); err != nil {
		return nil, s.storeError(err, "update")
	}
	return item, nil
}

// Delete removes a record; a missing id is NotFound, never an internal error.
func (s *ContentService[T, PT]) Delete(ctx context.Context, id uint) error {
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return s.storeError(err, "delete")
	}
	if !deleted {
		return errNotFound(s.kind.Noun + " not found")
	}
	return nil
}

func (s *ContentService[T, PT]) check(ctx context.Context, item *T, excludeID uint, checkSlug bool) error {
	if err := validateStruct(item); err != nil {
		return err
	}
	if !checkSlug {
		return nil
	}
	slug := PT(item).Base().Slug
	if !validSlug(slug) {
		return errValidation("slug may only contain lowercase letters, digits and hyphens")
	}
	// fast path only; the unique index decides races
	exists, err := s.store.SlugExists(ctx, slug, excludeID)
	if err != nil {
		return s.storeError(err, "check slug")
	}
	if exists {
		return errConflict(fmt.Sprintf("a %s with slug %q already exists", s.kind.Noun, slug))
	}
	return nil
}

func (s *ContentService[T, PT]) storeError(err error, op string) error {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return errNotFound(s.kind.Noun + " not found")
	case errors.Is(err, model.ErrDuplicate):
		return errConflict(fmt.Sprintf("a %s with this slug already exists", s.kind.Noun))
	default:
		logrus.WithError(err).WithFields(logrus.Fields{
			"resource": s.kind.Resource,
			"op":       op,
		}).Error("content store failure")
		return errInternal(fmt.Sprintf("failed to %s %s", op, s.kind.Noun), err)
	}
}

// decodePayload unmarshals a JSON object onto dst and returns its top-level
// keys so callers can tell which fields were sent.
func decodePayload(raw []byte, dst any) (map[string]json.RawMessage, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, errValidation("request body is required")
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil, errValidation("request body must be a JSON object")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return nil, errValidation("%s has the wrong type", typeErr.Field)
		}
		return nil, errValidation("invalid request body")
	}
	return fields, nil
}
