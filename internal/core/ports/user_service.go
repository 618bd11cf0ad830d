package ports

import (
	"context"

	"github.com/NguyenThanhNhut13/NguyenThanhNhut-PostManagementSystem/internal/core/domain"
)

// UserService exposes account operations. The acting identity is passed
// explicitly; admin-only operations check it inside the operation body in
// addition to the route policy table.
type UserService interface {
	ListUsers(ctx context.Context, actor *domain.Identity) ([]*domain.User, error)
	GetUser(ctx context.Context, actor *domain.Identity, id string) (*domain.User, error)
	CurrentUser(ctx context.Context, actor *domain.Identity) (*domain.User, error)
	// DeleteUser removes the account and all posts it authored.
	DeleteUser(ctx context.Context, actor *domain.Identity, id string) error
}
