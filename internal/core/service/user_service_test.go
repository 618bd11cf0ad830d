package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/NguyenThanhNhut13/NguyenThanhNhut-PostManagementSystem/internal/core/domain"
)

func seedUser(t *testing.T, repo *stubUserRepo, username string, roles ...domain.Role) *domain.User {
	t.Helper()
	if len(roles) == 0 {
		roles = []domain.Role{domain.RoleUser}
	}
	created, err := repo.Create(context.Background(), &domain.User{
		Username: username,
		Email:    username + "@example.com",
		Roles:    roles,
	})
	if err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return created
}

func TestUserService_ListUsers_AdminOnly(t *testing.T) {
	users := newStubUserRepo()
	svc := NewUserService(users, newStubPostRepo(), &stubAuditRecorder{}, zerolog.Nop())
	seedUser(t, users, "alice", domain.RoleUser, domain.RoleAdmin)
	seedUser(t, users, "bob")

	admin := identityFor("u1", "alice", domain.RoleUser, domain.RoleAdmin)
	all, err := svc.ListUsers(context.Background(), admin)
	if err != nil {
		t.Fatalf("ListUsers as admin: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 users, got %d", len(all))
	}

	if _, err := svc.ListUsers(context.Background(), identityFor("u2", "bob")); err != domain.ErrAccessDenied {
		t.Fatalf("expected ErrAccessDenied for non-admin, got %v", err)
	}
	if _, err := svc.ListUsers(context.Background(), nil); err != domain.ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized for anonymous, got %v", err)
	}
}

func TestUserService_GetUser_AdminOnly(t *testing.T) {
	users := newStubUserRepo()
	svc := NewUserService(users, newStubPostRepo(), &stubAuditRecorder{}, zerolog.Nop())
	bob := seedUser(t, users, "bob")

	admin := identityFor("u9", "alice", domain.RoleAdmin)
	got, err := svc.GetUser(context.Background(), admin, bob.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Username != "bob" {
		t.Fatalf("unexpected user: %+v", got)
	}

	if _, err := svc.GetUser(context.Background(), identityFor(bob.ID, "bob"), bob.ID); err != domain.ErrAccessDenied {
		t.Fatalf("expected ErrAccessDenied for non-admin, got %v", err)
	}
	if _, err := svc.GetUser(context.Background(), admin, "missing"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_CurrentUser(t *testing.T) {
	users := newStubUserRepo()
	svc := NewUserService(users, newStubPostRepo(), &stubAuditRecorder{}, zerolog.Nop())
	bob := seedUser(t, users, "bob")

	got, err := svc.CurrentUser(context.Background(), identityFor(bob.ID, "bob"))
	if err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	if got.Username != "bob" {
		t.Fatalf("unexpected user: %+v", got)
	}

	if _, err := svc.CurrentUser(context.Background(), nil); err != domain.ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestUserService_DeleteUser_CascadesPosts(t *testing.T) {
	users := newStubUserRepo()
	posts := newStubPostRepo()
	audit := &stubAuditRecorder{}
	svc := NewUserService(users, posts, audit, zerolog.Nop())

	bob := seedUser(t, users, "bob")
	posts.Create(context.Background(), &domain.Post{Title: "one", AuthorID: bob.ID})
	posts.Create(context.Background(), &domain.Post{Title: "two", AuthorID: bob.ID})
	kept, _ := posts.Create(context.Background(), &domain.Post{Title: "other", AuthorID: "someone-else"})

	admin := identityFor("u9", "alice", domain.RoleAdmin)
	if err := svc.DeleteUser(context.Background(), admin, bob.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	if _, err := users.FindByID(context.Background(), bob.ID); err != domain.ErrUserNotFound {
		t.Fatalf("expected user removed, got %v", err)
	}
	if len(posts.posts) != 1 {
		t.Fatalf("expected only unrelated post to survive, got %d", len(posts.posts))
	}
	if _, err := posts.FindByID(context.Background(), kept.ID); err != nil {
		t.Fatalf("unrelated post should survive: %v", err)
	}

	actions := audit.actions()
	if len(actions) != 1 || actions[0] != domain.AuditUserDeleted {
		t.Fatalf("expected user-deleted audit event, got %v", actions)
	}
}

func TestUserService_DeleteUser_NonAdmin(t *testing.T) {
	users := newStubUserRepo()
	svc := NewUserService(users, newStubPostRepo(), &stubAuditRecorder{}, zerolog.Nop())
	bob := seedUser(t, users, "bob")

	if err := svc.DeleteUser(context.Background(), identityFor(bob.ID, "bob"), bob.ID); err != domain.ErrAccessDenied {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
}

func TestSeedRoles_Idempotent(t *testing.T) {
	roles := newStubRoleRepo()

	if err := SeedRoles(context.Background(), roles); err != nil {
		t.Fatalf("SeedRoles: %v", err)
	}
	if err := SeedRoles(context.Background(), roles); err != nil {
		t.Fatalf("SeedRoles second run: %v", err)
	}

	if len(roles.roles) != 2 {
		t.Fatalf("expected exactly 2 roles, got %d", len(roles.roles))
	}
	for _, name := range []string{"ROLE_USER", "ROLE_ADMIN"} {
		if _, err := roles.FindByName(context.Background(), name); err != nil {
			t.Fatalf("expected %s seeded: %v", name, err)
		}
	}
}
