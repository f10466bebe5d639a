package service

import (
	"context"
	"errors"
	"labsite/internal/auth"
	"labsite/internal/entity"
	"labsite/internal/notify"
	"strings"
	"testing"
)

func submitAda(t *testing.T, svc *AccessService) uint {
	t.Helper()
	id, err := svc.Submit(context.Background(), entity.AccessRequestCreateRequest{
		Name:   "Ada",
		Email:  "ada@x.org",
		Reason: "collab",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if id == 0 {
		t.Fatal("expected request id")
	}
	return id
}

func TestSubmitValidation(t *testing.T) {
	f := newFixture(t)
	svc := f.accessService()

	tests := []struct {
		name string
		req  entity.AccessRequestCreateRequest
	}{
		{name: "missing name", req: entity.AccessRequestCreateRequest{Email: "a@x.org", Reason: "r"}},
		{name: "missing email", req: entity.AccessRequestCreateRequest{Name: "A", Reason: "r"}},
		{name: "missing reason", req: entity.AccessRequestCreateRequest{Name: "A", Email: "a@x.org", Reason: "   "}},
		{name: "malformed email", req: entity.AccessRequestCreateRequest{Name: "A", Email: "not-an-email", Reason: "r"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), tt.req)
			assertKind(t, err, KindValidation)
		})
	}
}

func TestSubmitDuplicateEmailConflicts(t *testing.T) {
	f := newFixture(t)
	svc := f.accessService()
	submitAda(t, svc)

	_, err := svc.Submit(context.Background(), entity.AccessRequestCreateRequest{Name: "Ada 2", Email: "ada@x.org", Reason: "again"})
	assertKind(t, err, KindConflict)

	if got := f.notifier.kinds(); len(got) != 1 || got[0] != notify.KindAccessRequested {
		t.Fatalf("expected a single new-request notice, got %v", got)
	}
}

func TestApproveProvisionsPendingAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	root := f.addUser(t, "root@lab.org", "correct-horse", entity.UserRoleSuperAdmin, true)
	svc := f.accessService()
	id := submitAda(t, svc)

	notes := " welcome "
	reviewed, err := svc.Review(ctx, root, entity.AccessRequestReviewRequest{
		RequestID:    id,
		Action:       "approve",
		TempPassword: "longenough1",
		ReviewNotes:  &notes,
	})
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if reviewed.Status != entity.AccessStatusApproved {
		t.Fatalf("expected approved, got %s", reviewed.Status)
	}

	stored, _ := f.repo.GetAccessRequest(ctx, id)
	if stored.Status != entity.AccessStatusApproved || stored.ReviewedBy == nil || *stored.ReviewedBy != root.ID {
		t.Fatalf("unexpected stored request %+v", stored)
	}
	if stored.ReviewedAt == nil || !stored.ReviewedAt.Equal(fixedNow) {
		t.Fatalf("expected reviewed at %s, got %v", fixedNow, stored.ReviewedAt)
	}
	if stored.ReviewNotes == nil || *stored.ReviewNotes != "welcome" {
		t.Fatalf("expected trimmed notes, got %v", stored.ReviewNotes)
	}

	account, err := f.repo.GetUserByEmail(ctx, "ada@x.org")
	if err != nil {
		t.Fatalf("expected account: %v", err)
	}
	if account.Role != entity.UserRolePending || !account.IsActive {
		t.Fatalf("expected active pending account, got role=%s active=%v", account.Role, account.IsActive)
	}
	if err := auth.VerifyPassword(account.PasswordHash, "longenough1"); err != nil {
		t.Fatalf("expected temp password to be the account password: %v", err)
	}

	// pending accounts cannot touch content
	ok, _ := f.authz.IsAdmin(ctx, &entity.Identity{ID: account.ID})
	if ok {
		t.Fatal("pending account must not be an admin")
	}

	sent := f.notifier.kinds()
	if len(sent) != 2 || sent[1] != notify.KindAccessApproved {
		t.Fatalf("expected approval notice, got %v", sent)
	}
}

func TestSecondReviewConflictsAndKeepsFirstOutcome(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	root := f.addUser(t, "root@lab.org", "correct-horse", entity.UserRoleSuperAdmin, true)
	other := f.addUser(t, "root2@lab.org", "correct-horse", entity.UserRoleSuperAdmin, true)
	svc := f.accessService()
	id := submitAda(t, svc)

	if _, err := svc.Review(ctx, root, entity.AccessRequestReviewRequest{RequestID: id, Action: "reject"}); err != nil {
		t.Fatalf("first review: %v", err)
	}
	first, _ := f.repo.GetAccessRequest(ctx, id)

	_, err := svc.Review(ctx, other, entity.AccessRequestReviewRequest{RequestID: id, Action: "approve", TempPassword: "longenough1"})
	assertKind(t, err, KindConflict)

	after, _ := f.repo.GetAccessRequest(ctx, id)
	if after.Status != entity.AccessStatusRejected || *after.ReviewedBy != *first.ReviewedBy || !after.ReviewedAt.Equal(*first.ReviewedAt) {
		t.Fatalf("first review was overwritten: %+v", after)
	}
	if _, err := f.repo.GetUserByEmail(ctx, "ada@x.org"); err == nil {
		t.Fatal("rejected request must not create an account")
	}
}

func TestReviewFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	root := f.addUser(t, "root@lab.org", "correct-horse", entity.UserRoleSuperAdmin, true)
	admin := f.addUser(t, "admin@lab.org", "correct-horse", entity.UserRoleAdmin, true)
	svc := f.accessService()
	id := submitAda(t, svc)

	_, err := svc.Review(ctx, nil, entity.AccessRequestReviewRequest{RequestID: id, Action: "reject"})
	assertKind(t, err, KindAuthentication)

	_, err = svc.Review(ctx, admin, entity.AccessRequestReviewRequest{RequestID: id, Action: "reject"})
	assertKind(t, err, KindAuthorization)

	_, err = svc.Review(ctx, root, entity.AccessRequestReviewRequest{RequestID: id, Action: "maybe"})
	assertKind(t, err, KindValidation)

	_, err = svc.Review(ctx, root, entity.AccessRequestReviewRequest{RequestID: 9999, Action: "reject"})
	assertKind(t, err, KindNotFound)

	for _, pw := range []string{"short", "        ", strings.Repeat("a", 80)} {
		_, err = svc.Review(ctx, root, entity.AccessRequestReviewRequest{RequestID: id, Action: "approve", TempPassword: pw})
		assertKind(t, err, KindValidation)
	}
	if _, err := f.repo.GetUserByEmail(ctx, "ada@x.org"); err == nil {
		t.Fatal("rejected temp passwords must not provision an account")
	}

	stored, _ := f.repo.GetAccessRequest(ctx, id)
	if !stored.IsPending() {
		t.Fatalf("failed reviews must leave the request pending, got %s", stored.Status)
	}
}

func TestApproveExistingAccountConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	root := f.addUser(t, "root@lab.org", "correct-horse", entity.UserRoleSuperAdmin, true)
	f.addUser(t, "ada@x.org", "whatever-pass", entity.UserRoleAdmin, true)
	svc := f.accessService()
	id := submitAda(t, svc)

	_, err := svc.Review(ctx, root, entity.AccessRequestReviewRequest{RequestID: id, Action: "approve", TempPassword: "longenough1"})
	assertKind(t, err, KindConflict)

	stored, _ := f.repo.GetAccessRequest(ctx, id)
	if !stored.IsPending() {
		t.Fatal("request must stay pending when approval fails")
	}
}

func TestNotificationFailureDoesNotRollBack(t *testing.T) {
	f := newFixture(t)
	f.notifier.err = errors.New("smtp down")
	ctx := context.Background()
	root := f.addUser(t, "root@lab.org", "correct-horse", entity.UserRoleSuperAdmin, true)
	svc := f.accessService()
	id := submitAda(t, svc)

	if _, err := svc.Review(ctx, root, entity.AccessRequestReviewRequest{RequestID: id, Action: "approve", TempPassword: "longenough1"}); err != nil {
		t.Fatalf("approval must succeed despite notifier failure: %v", err)
	}
	stored, _ := f.repo.GetAccessRequest(ctx, id)
	if stored.Status != entity.AccessStatusApproved {
		t.Fatalf("expected approved, got %s", stored.Status)
	}
}

func TestListAccessRequests(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	root := f.addUser(t, "root@lab.org", "correct-horse", entity.UserRoleSuperAdmin, true)
	svc := f.accessService()
	id := submitAda(t, svc)
	if _, err := svc.Submit(ctx, entity.AccessRequestCreateRequest{Name: "Bob", Email: "bob@x.org", Reason: "r"}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := svc.Review(ctx, root, entity.AccessRequestReviewRequest{RequestID: id, Action: "reject"}); err != nil {
		t.Fatalf("review: %v", err)
	}

	all, err := svc.List(ctx, root, "")
	if err != nil || len(all) != 2 {
		t.Fatalf("expected 2 requests, got %d (%v)", len(all), err)
	}
	pending, err := svc.List(ctx, root, entity.AccessStatusPending)
	if err != nil || len(pending) != 1 || pending[0].Email != "bob@x.org" {
		t.Fatalf("expected only bob pending, got %+v (%v)", pending, err)
	}
	_, err = svc.List(ctx, root, "archived")
	assertKind(t, err, KindValidation)
}
