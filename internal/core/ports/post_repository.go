package ports

import (
	"context"

	"github.com/NguyenThanhNhut13/NguyenThanhNhut-PostManagementSystem/internal/core/domain"
)

// ListPostsFilter carries all query parameters for listing posts.
type ListPostsFilter struct {
	AuthorID  string // non-empty = only posts by this author ("my posts")
	SortBy    string // created_at, updated_at, or title
	Ascending bool
	Page      int // 0-based, matching the original API contract
	Size      int // rows per page (capped by the service)
}

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) (*domain.Post, error)
	FindByID(ctx context.Context, id string) (*domain.Post, error)
	// List returns one page of posts matching filter and the total count.
	List(ctx context.Context, filter ListPostsFilter) ([]*domain.Post, int64, error)
	Update(ctx context.Context, post *domain.Post) (*domain.Post, error)
	Delete(ctx context.Context, id string) error
	// DeleteByAuthor removes every post owned by the given user. Used when an
	// admin deletes an account.
	DeleteByAuthor(ctx context.Context, authorID string) error
}
