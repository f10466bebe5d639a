package service

import (
	"context"
	"errors"
	"labsite/internal/entity"
	"testing"
)

func TestContactSubmitStoresEvenWhenMailFails(t *testing.T) {
	f := newFixture(t)
	f.notifier.err = errors.New("relay down")
	svc := NewContactService(f.repo, f.notifier, f.clock, "lab@example.org")
	ctx := context.Background()

	err := svc.Submit(ctx, entity.ContactRequest{Name: "Ada", Email: "ada@x.org", Message: " hello "})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	items, err := svc.List(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].Message != "hello" || !items[0].CreatedAt.Equal(fixedNow) {
		t.Fatalf("unexpected messages %+v", items)
	}
	if len(f.notifier.kinds()) != 1 {
		t.Fatal("expected one delivery attempt")
	}
}

func TestContactSubmitValidation(t *testing.T) {
	f := newFixture(t)
	svc := NewContactService(f.repo, f.notifier, f.clock, "")

	for _, req := range []entity.ContactRequest{
		{Email: "ada@x.org", Message: "hi"},
		{Name: "Ada", Message: "hi"},
		{Name: "Ada", Email: "ada@x.org"},
		{Name: "Ada", Email: "ada-at-x", Message: "hi"},
	} {
		assertKind(t, svc.Submit(context.Background(), req), KindValidation)
	}

	items, _ := svc.List(context.Background(), 10)
	if len(items) != 0 {
		t.Fatalf("invalid submissions must not be stored, got %d", len(items))
	}
}
