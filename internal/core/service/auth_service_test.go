package service

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/NguyenThanhNhut13/NguyenThanhNhut-PostManagementSystem/internal/core/domain"
	"github.com/NguyenThanhNhut13/NguyenThanhNhut-PostManagementSystem/internal/core/ports"
	"github.com/NguyenThanhNhut13/NguyenThanhNhut-PostManagementSystem/internal/token"
)

func testCodec(t *testing.T) *token.Codec {
	t.Helper()
	secret := base64.StdEncoding.EncodeToString([]byte("unit-test-signing-key"))
	codec, err := token.NewCodec(secret, time.Hour)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	return codec
}

func newTestAuthService(t *testing.T) (*AuthService, *stubUserRepo, *stubRoleRepo, *stubThrottle, *stubAuditRecorder) {
	t.Helper()
	users := newStubUserRepo()
	roles := newStubRoleRepo(domain.RoleUser, domain.RoleAdmin)
	throttle := newStubThrottle(5)
	audit := &stubAuditRecorder{}
	svc := NewAuthService(users, roles, testCodec(t), throttle, audit, zerolog.Nop())
	return svc, users, roles, throttle, audit
}

func registerInput(username, email string) ports.RegisterInput {
	return ports.RegisterInput{
		Username:  username,
		Password:  "pw123",
		FirstName: "Test",
		LastName:  "User",
		Gender:    "M",
		Email:     email,
	}
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, _, _, _, audit := newTestAuthService(t)

	user, err := svc.Register(context.Background(), registerInput("bob", "bob@example.com"))
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if len(user.Roles) != 1 || user.Roles[0] != domain.RoleUser {
		t.Fatalf("expected exactly the default role, got %v", user.Roles)
	}
	if user.PasswordHash == "pw123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pw123")); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}

	actions := audit.actions()
	if len(actions) != 1 || actions[0] != domain.AuditUserRegistered {
		t.Fatalf("expected registration audit event, got %v", actions)
	}
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	svc, _, _, _, _ := newTestAuthService(t)

	if _, err := svc.Register(context.Background(), registerInput("bob", "bob@example.com")); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(context.Background(), registerInput("bob", "other@example.com"))
	if err != domain.ErrUsernameExists {
		t.Fatalf("expected ErrUsernameExists, got %v", err)
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc, _, _, _, _ := newTestAuthService(t)

	if _, err := svc.Register(context.Background(), registerInput("bob", "bob@example.com")); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(context.Background(), registerInput("robert", "bob@example.com"))
	if err != domain.ErrEmailExists {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestAuthService_Register_MissingSeedRole(t *testing.T) {
	users := newStubUserRepo()
	roles := newStubRoleRepo() // nothing seeded
	svc := NewAuthService(users, roles, testCodec(t), newStubThrottle(5), &stubAuditRecorder{}, zerolog.Nop())

	_, err := svc.Register(context.Background(), registerInput("bob", "bob@example.com"))
	if err != domain.ErrRoleNotSeeded {
		t.Fatalf("expected ErrRoleNotSeeded, got %v", err)
	}
	if ok, _ := users.ExistsByUsername(context.Background(), "bob"); ok {
		t.Fatalf("expected no user written on seed failure")
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, _, _, _, _ := newTestAuthService(t)
	codec := testCodec(t)

	if _, err := svc.Register(context.Background(), registerInput("bob", "bob@example.com")); err != nil {
		t.Fatalf("register: %v", err)
	}

	signed, err := svc.Login(context.Background(), "bob", "pw123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	claims, err := codec.Parse(signed)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Subject != "bob" {
		t.Fatalf("expected subject bob, got %q", claims.Subject)
	}
	if claims.IsAdmin {
		t.Fatalf("expected isAdmin=false for fresh registration")
	}
	if !claims.IsUser {
		t.Fatalf("expected isUser=true")
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, _, _, throttle, audit := newTestAuthService(t)

	_, _ = svc.Register(context.Background(), registerInput("alice", "alice@example.com"))

	_, err := svc.Login(context.Background(), "alice", "wrongpass")
	if err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if throttle.failures["alice"] != 1 {
		t.Fatalf("expected one recorded failure, got %d", throttle.failures["alice"])
	}

	actions := audit.actions()
	if actions[len(actions)-1] != domain.AuditLoginFailed {
		t.Fatalf("expected login-failed audit event, got %v", actions)
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	svc, _, _, _, _ := newTestAuthService(t)

	_, err := svc.Login(context.Background(), "ghost", "pw")
	if err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_Throttled(t *testing.T) {
	svc, _, _, throttle, _ := newTestAuthService(t)

	_, _ = svc.Register(context.Background(), registerInput("alice", "alice@example.com"))
	for i := 0; i < 5; i++ {
		_, _ = svc.Login(context.Background(), "alice", "wrongpass")
	}

	_, err := svc.Login(context.Background(), "alice", "pw123")
	if err != domain.ErrTooManyAttempts {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}

	// Successful login after the window clears the counter.
	throttle.Reset(context.Background(), "alice")
	if _, err := svc.Login(context.Background(), "alice", "pw123"); err != nil {
		t.Fatalf("login after reset: %v", err)
	}
	if throttle.failures["alice"] != 0 {
		t.Fatalf("expected counter cleared on success")
	}
}

func TestAuthService_Login_ClaimsSnapshotRoles(t *testing.T) {
	svc, users, _, _, _ := newTestAuthService(t)
	codec := testCodec(t)

	_, _ = svc.Register(context.Background(), registerInput("carol", "carol@example.com"))

	// Promote carol, then log in: the new token reflects the current role set.
	stored := users.users["carol"]
	stored.Roles = append(stored.Roles, domain.RoleAdmin)

	signed, err := svc.Login(context.Background(), "carol", "pw123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, err := codec.Parse(signed)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !claims.IsAdmin || !claims.IsUser {
		t.Fatalf("expected both flags after promotion, got isAdmin=%v isUser=%v", claims.IsAdmin, claims.IsUser)
	}

	// Demoting afterwards does not touch the already-issued token.
	stored.Roles = []domain.Role{domain.RoleUser}
	claims, err = codec.Parse(signed)
	if err != nil {
		t.Fatalf("Parse after demotion: %v", err)
	}
	if !claims.IsAdmin {
		t.Fatalf("expected issued token to keep its admin snapshot")
	}
}
