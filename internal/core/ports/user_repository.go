package ports

import (
	"context"

	"github.com/NguyenThanhNhut13/NguyenThanhNhut-PostManagementSystem/internal/core/domain"
)

// UserRepository defines persistence operations for accounts. Uniqueness of
// username and email is enforced by the store (unique indexes).
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FindAll(ctx context.Context) ([]*domain.User, error)
	Delete(ctx context.Context, id string) error
}

// RoleRepository defines persistence for the fixed role set.
type RoleRepository interface {
	FindByName(ctx context.Context, name string) (domain.Role, error)
	// Upsert creates the named role if absent. Idempotent by name.
	Upsert(ctx context.Context, role domain.Role) error
}
