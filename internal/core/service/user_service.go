package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/NguyenThanhNhut13/NguyenThanhNhut-PostManagementSystem/internal/core/domain"
	"github.com/NguyenThanhNhut13/NguyenThanhNhut-PostManagementSystem/internal/core/ports"
)

// UserService implements account listing, lookup, and deletion. Admin-only
// operations verify the acting identity inside the operation body; the route
// policy table is a second, independent layer.
type UserService struct {
	users ports.UserRepository
	posts ports.PostRepository
	audit ports.AuditRecorder
	log   zerolog.Logger
}

func NewUserService(users ports.UserRepository, posts ports.PostRepository, audit ports.AuditRecorder, log zerolog.Logger) *UserService {
	return &UserService{users: users, posts: posts, audit: audit, log: log}
}

func (s *UserService) ListUsers(ctx context.Context, actor *domain.Identity) ([]*domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.users.FindAll(ctx)
}

func (s *UserService) GetUser(ctx context.Context, actor *domain.Identity, id string) (*domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, id)
}

func (s *UserService) CurrentUser(ctx context.Context, actor *domain.Identity) (*domain.User, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}
	return s.users.FindByUsername(ctx, actor.Username)
}

// DeleteUser removes the account and cascades deletion of its posts.
func (s *UserService) DeleteUser(ctx context.Context, actor *domain.Identity, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.posts.DeleteByAuthor(ctx, user.ID); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, user.ID); err != nil {
		return err
	}

	s.audit.Record(domain.AuditEvent{
		Action:    domain.AuditUserDeleted,
		Username:  user.Username,
		Detail:    "deleted by " + actor.Username,
		Timestamp: time.Now().UTC(),
	})
	s.log.Info().Str("username", user.Username).Str("actor", actor.Username).Msg("user deleted")
	return nil
}

// requireAdmin is the in-operation capability check for user management.
func requireAdmin(actor *domain.Identity) error {
	if actor == nil {
		return domain.ErrUnauthorized
	}
	if !actor.IsAdmin() {
		return domain.ErrAccessDenied
	}
	return nil
}
