package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/NguyenThanhNhut13/NguyenThanhNhut-PostManagementSystem/internal/core/domain"
	"github.com/NguyenThanhNhut13/NguyenThanhNhut-PostManagementSystem/internal/core/ports"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// PostService implements post CRUD with per-resource ownership checks.
// Ownership cannot be expressed in the route policy table because it depends
// on the loaded post, so update and delete verify it here.
type PostService struct {
	posts ports.PostRepository
	users ports.UserRepository
	audit ports.AuditRecorder
	log   zerolog.Logger
}

func NewPostService(posts ports.PostRepository, users ports.UserRepository, audit ports.AuditRecorder, log zerolog.Logger) *PostService {
	return &PostService{posts: posts, users: users, audit: audit, log: log}
}

func (s *PostService) CreatePost(ctx context.Context, actor *domain.Identity, in ports.CreatePostInput) (*ports.PostDetail, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}

	now := time.Now().UTC()
	post := &domain.Post{
		Title:     in.Title,
		Content:   in.Content,
		AuthorID:  actor.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	created, err := s.posts.Create(ctx, post)
	if err != nil {
		return nil, err
	}
	return s.withAuthor(ctx, created), nil
}

func (s *PostService) GetPost(ctx context.Context, actor *domain.Identity, id string) (*ports.PostDetail, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withAuthor(ctx, post), nil
}

func (s *PostService) ListPosts(ctx context.Context, actor *domain.Identity, filter ports.ListPostsFilter, myPosts bool) (*ports.PostPage, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}

	if myPosts {
		filter.AuthorID = actor.UserID
	} else {
		filter.AuthorID = ""
	}
	if filter.Page < 0 {
		filter.Page = 0
	}
	if filter.Size <= 0 {
		filter.Size = defaultPageSize
	}
	if filter.Size > maxPageSize {
		filter.Size = maxPageSize
	}
	switch filter.SortBy {
	case "created_at", "updated_at", "title":
	default:
		filter.SortBy = "created_at"
	}

	posts, total, err := s.posts.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	// Resolve each distinct author once per page.
	authors := make(map[string]*domain.User, len(posts))
	details := make([]*ports.PostDetail, 0, len(posts))
	for _, p := range posts {
		author, seen := authors[p.AuthorID]
		if !seen {
			author, _ = s.users.FindByID(ctx, p.AuthorID)
			authors[p.AuthorID] = author
		}
		details = append(details, &ports.PostDetail{Post: p, Author: author})
	}

	totalPages := int(total) / filter.Size
	if int(total)%filter.Size != 0 {
		totalPages++
	}

	return &ports.PostPage{
		Posts:         details,
		CurrentPage:   filter.Page,
		TotalPages:    totalPages,
		TotalElements: total,
		HasNext:       filter.Page+1 < totalPages,
		HasPrevious:   filter.Page > 0,
	}, nil
}

func (s *PostService) UpdatePost(ctx context.Context, actor *domain.Identity, id string, in ports.UpdatePostInput) (*ports.PostDetail, error) {
	post, err := s.ownedPost(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	post.Title = in.Title
	post.Content = in.Content
	post.UpdatedAt = time.Now().UTC()
	updated, err := s.posts.Update(ctx, post)
	if err != nil {
		return nil, err
	}
	return s.withAuthor(ctx, updated), nil
}

func (s *PostService) DeletePost(ctx context.Context, actor *domain.Identity, id string) error {
	post, err := s.ownedPost(ctx, actor, id)
	if err != nil {
		return err
	}

	if err := s.posts.Delete(ctx, post.ID); err != nil {
		return err
	}

	s.audit.Record(domain.AuditEvent{
		Action:    domain.AuditPostDeleted,
		Username:  actor.Username,
		Detail:    "post " + post.ID,
		Timestamp: time.Now().UTC(),
	})
	return nil
}

// ownedPost loads the post and enforces that actor is its author. There is no
// admin override here: only the author may edit or delete a post.
func (s *PostService) ownedPost(ctx context.Context, actor *domain.Identity, id string) (*domain.Post, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}

	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !post.OwnedBy(actor.UserID) {
		s.audit.Record(domain.AuditEvent{
			Action:    domain.AuditOwnershipRejected,
			Username:  actor.Username,
			Detail:    "post " + post.ID,
			Timestamp: time.Now().UTC(),
		})
		return nil, domain.ErrAccessDenied
	}
	return post, nil
}

// withAuthor attaches the author account to a post. A failed author lookup is
// logged and yields a nil author; the post itself is still returned.
func (s *PostService) withAuthor(ctx context.Context, post *domain.Post) *ports.PostDetail {
	author, err := s.users.FindByID(ctx, post.AuthorID)
	if err != nil {
		s.log.Warn().Err(err).Str("post_id", post.ID).Str("author_id", post.AuthorID).Msg("post author not resolvable")
	}
	return &ports.PostDetail{Post: post, Author: author}
}
