package ports

import (
	"context"

	"github.com/NguyenThanhNhut13/NguyenThanhNhut-PostManagementSystem/internal/core/domain"
)

// CreatePostInput is the DTO for creating a post.
type CreatePostInput struct {
	Title   string
	Content string
}

// UpdatePostInput is the DTO for editing a post.
type UpdatePostInput struct {
	Title   string
	Content string
}

// PostDetail pairs a post with its resolved author for response mapping.
// Author may be nil if the account has since disappeared.
type PostDetail struct {
	Post   *domain.Post
	Author *domain.User
}

// PostPage is one page of a post listing.
type PostPage struct {
	Posts         []*PostDetail
	CurrentPage   int
	TotalPages    int
	TotalElements int64
	HasNext       bool
	HasPrevious   bool
}

// PostService exposes post CRUD. Every operation requires an authenticated
// identity; update and delete additionally require ownership.
type PostService interface {
	CreatePost(ctx context.Context, actor *domain.Identity, in CreatePostInput) (*PostDetail, error)
	GetPost(ctx context.Context, actor *domain.Identity, id string) (*PostDetail, error)
	ListPosts(ctx context.Context, actor *domain.Identity, filter ListPostsFilter, myPosts bool) (*PostPage, error)
	UpdatePost(ctx context.Context, actor *domain.Identity, id string, in UpdatePostInput) (*PostDetail, error)
	DeletePost(ctx context.Context, actor *domain.Identity, id string) error
}
