package service

import (
	"context"
	"errors"
	"labsite/internal/auth"
	"labsite/internal/entity"
	"labsite/internal/model"
	"labsite/internal/notify"
	"sync"
	"testing"
	"time"
)

var fixedNow = time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

type fakeNotifier struct {
	mu   sync.Mutex
	sent []notify.Message
	err  error
}

func (f *fakeNotifier) Notify(_ context.Context, msg notify.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return f.err
}

func (f *fakeNotifier) kinds() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.sent))
	for _, m := range f.sent {
		out = append(out, m.Kind)
	}
	return out
}

type fixture struct {
	stores   *model.Stores
	repo     model.Repository
	authz    *Authorizer
	notifier *fakeNotifier
	clock    Clock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	stores := model.NewMemoryStores()
	return &fixture{
		stores:   stores,
		repo:     stores.Repo,
		authz:    NewAuthorizer(stores.Repo),
		notifier: &fakeNotifier{},
		clock:    ClockFunc(func() time.Time { return fixedNow }),
	}
}

// addUser stores an account with the given password and returns its identity.
func (f *fixture) addUser(t *testing.T, email, password, role string, active bool) *entity.Identity {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &entity.DbUser{Email: email, PasswordHash: hash, Role: role, IsActive: active}
	if err := f.repo.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return &entity.Identity{ID: user.ID, Email: user.Email, Name: user.NameOrEmail(), Role: user.Role}
}

func (f *fixture) accessService() *AccessService {
	return NewAccessService(f.repo, f.authz, f.notifier, f.clock, AccessSettings{Inbox: "lab@example.org", SiteURL: "https://lab.example.org"})
}

func assertKind(t *testing.T, err error, want Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	var svcErr *Error
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected service error, got %T: %v", err, err)
	}
	if svcErr.Kind != want {
		t.Fatalf("expected %s error, got %s (%v)", want, svcErr.Kind, err)
	}
}
