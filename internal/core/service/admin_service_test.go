package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/codexplain/explainer-api/internal/core/domain"
)

func seedAccount(t *testing.T, store *stubCredentialStore, username string, role domain.Role) *domain.Account {
	t.Helper()
	a, err := store.InsertUnique(context.Background(), &domain.Account{
		Username:     username,
		PasswordHash: "hash",
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed account: %v", err)
	}
	return a
}

func TestAdminService_DeleteUser_CascadesExplanations(t *testing.T) {
	store := newStubCredentialStore()
	repo := newStubExplanationRepo()
	alice := seedAccount(t, store, "alice", domain.RoleUser)
	bob := seedAccount(t, store, "bob", domain.RoleUser)
	seedExplanations(repo, alice.ID, bob.ID, alice.ID)

	svc := NewAdminService(store, repo, zerolog.Nop())
	if err := svc.DeleteUser(context.Background(), alice.ID); err != nil {
		t.Fatalf("DeleteUser returned error: %v", err)
	}

	if _, err := store.FindByID(context.Background(), alice.ID); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("account still present: %v", err)
	}
	if len(repo.items) != 1 {
		t.Fatalf("expected only bob's explanation to remain, got %d", len(repo.items))
	}
}

func TestAdminService_DeleteUser_RefusesAdmins(t *testing.T) {
	store := newStubCredentialStore()
	root := seedAccount(t, store, "root", domain.RoleAdmin)

	svc := NewAdminService(store, newStubExplanationRepo(), zerolog.Nop())
	err := svc.DeleteUser(context.Background(), root.ID)
	if !errors.Is(err, domain.ErrAdminNotDeletable) || !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrAdminNotDeletable, got %v", err)
	}
	if store.count() != 1 {
		t.Fatalf("admin account must not be deleted")
	}
}

func TestAdminService_DeleteUser_NotFound(t *testing.T) {
	svc := NewAdminService(newStubCredentialStore(), newStubExplanationRepo(), zerolog.Nop())

	if err := svc.DeleteUser(context.Background(), "nope"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAdminService_ListExplanations_ResolvesUsernames(t *testing.T) {
	store := newStubCredentialStore()
	repo := newStubExplanationRepo()
	alice := seedAccount(t, store, "alice", domain.RoleUser)
	seedExplanations(repo, alice.ID, "deleted-user")

	svc := NewAdminService(store, repo, zerolog.Nop())
	items, err := svc.ListExplanations(context.Background())
	if err != nil {
		t.Fatalf("ListExplanations returned error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	// newest first: the orphan was seeded last
	if items[0].Username != "" || items[0].UserID != "deleted-user" {
		t.Fatalf("unexpected first item: %+v", items[0])
	}
	if items[1].Username != "alice" {
		t.Fatalf("expected alice, got %q", items[1].Username)
	}
}

func TestAdminService_DeleteExplanation(t *testing.T) {
	repo := newStubExplanationRepo()
	seedExplanations(repo, "u1")
	svc := NewAdminService(newStubCredentialStore(), repo, zerolog.Nop())

	if err := svc.DeleteExplanation(context.Background(), "exp-1"); err != nil {
		t.Fatalf("DeleteExplanation returned error: %v", err)
	}
	if err := svc.DeleteExplanation(context.Background(), "exp-1"); !errors.Is(err, domain.ErrExplanationNotFound) {
		t.Fatalf("expected ErrExplanationNotFound, got %v", err)
	}
}

func TestAdminService_ListUsers(t *testing.T) {
	store := newStubCredentialStore()
	seedAccount(t, store, "alice", domain.RoleUser)
	seedAccount(t, store, "root", domain.RoleAdmin)

	svc := NewAdminService(store, newStubExplanationRepo(), zerolog.Nop())
	users, err := svc.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers returned error: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
}
