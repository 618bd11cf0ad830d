package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/NguyenThanhNhut13/NguyenThanhNhut-PostManagementSystem/internal/core/domain"
	"github.com/NguyenThanhNhut13/NguyenThanhNhut-PostManagementSystem/internal/core/ports"
)

func identityFor(id, username string, roles ...domain.Role) *domain.Identity {
	if len(roles) == 0 {
		roles = []domain.Role{domain.RoleUser}
	}
	return &domain.Identity{UserID: id, Username: username, Roles: roles}
}

func newTestPostService(t *testing.T) (*PostService, *stubPostRepo, *stubUserRepo, *stubAuditRecorder) {
	t.Helper()
	posts := newStubPostRepo()
	users := newStubUserRepo()
	audit := &stubAuditRecorder{}
	return NewPostService(posts, users, audit, zerolog.Nop()), posts, users, audit
}

func TestPostService_CreatePost_SetsAuthor(t *testing.T) {
	svc, _, users, _ := newTestPostService(t)
	bob := seedUser(t, users, "bob")
	actor := identityFor(bob.ID, "bob")

	detail, err := svc.CreatePost(context.Background(), actor, ports.CreatePostInput{Title: "hello", Content: "world"})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if detail.Post.AuthorID != bob.ID {
		t.Fatalf("expected author %s, got %q", bob.ID, detail.Post.AuthorID)
	}
	if detail.Post.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if detail.Author == nil || detail.Author.Username != "bob" {
		t.Fatalf("expected resolved author, got %+v", detail.Author)
	}
}

func TestPostService_CreatePost_Anonymous(t *testing.T) {
	svc, _, _, _ := newTestPostService(t)

	_, err := svc.CreatePost(context.Background(), nil, ports.CreatePostInput{Title: "x", Content: "y"})
	if err != domain.ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestPostService_GetPost_NotFound(t *testing.T) {
	svc, _, _, _ := newTestPostService(t)

	_, err := svc.GetPost(context.Background(), identityFor("u1", "bob"), "missing")
	if err != domain.ErrPostNotFound {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestPostService_UpdatePost_OwnerOnly(t *testing.T) {
	svc, _, users, audit := newTestPostService(t)
	bobUser := seedUser(t, users, "bob")
	bob := identityFor(bobUser.ID, "bob")
	carol := identityFor("u99", "carol")

	detail, err := svc.CreatePost(context.Background(), bob, ports.CreatePostInput{Title: "t", Content: "c"})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	postID := detail.Post.ID

	if _, err := svc.UpdatePost(context.Background(), carol, postID, ports.UpdatePostInput{Title: "x", Content: "y"}); err != domain.ErrAccessDenied {
		t.Fatalf("expected ErrAccessDenied for non-owner, got %v", err)
	}

	actions := audit.actions()
	if actions[len(actions)-1] != domain.AuditOwnershipRejected {
		t.Fatalf("expected ownership-rejected audit event, got %v", actions)
	}

	updated, err := svc.UpdatePost(context.Background(), bob, postID, ports.UpdatePostInput{Title: "new", Content: "body"})
	if err != nil {
		t.Fatalf("UpdatePost by owner: %v", err)
	}
	if updated.Post.Title != "new" || updated.Post.Content != "body" {
		t.Fatalf("unexpected updated post: %+v", updated.Post)
	}
	if updated.Post.AuthorID != bobUser.ID {
		t.Fatalf("ownership must not change on update")
	}
}

func TestPostService_DeletePost_OwnerOnly(t *testing.T) {
	svc, posts, users, _ := newTestPostService(t)
	bobUser := seedUser(t, users, "bob")
	bob := identityFor(bobUser.ID, "bob")
	carol := identityFor("u99", "carol")

	detail, _ := svc.CreatePost(context.Background(), bob, ports.CreatePostInput{Title: "t", Content: "c"})
	postID := detail.Post.ID

	if err := svc.DeletePost(context.Background(), carol, postID); err != domain.ErrAccessDenied {
		t.Fatalf("expected ErrAccessDenied for non-owner, got %v", err)
	}
	if err := svc.DeletePost(context.Background(), bob, postID); err != nil {
		t.Fatalf("DeletePost by owner: %v", err)
	}
	if _, err := posts.FindByID(context.Background(), postID); err != domain.ErrPostNotFound {
		t.Fatalf("expected post removed, got %v", err)
	}
}

func TestPostService_ListPosts_Pagination(t *testing.T) {
	svc, posts, users, _ := newTestPostService(t)
	bobUser := seedUser(t, users, "bob")
	bob := identityFor(bobUser.ID, "bob")

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		posts.Create(context.Background(), &domain.Post{
			Title:     "post",
			Content:   "c",
			AuthorID:  bobUser.ID,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			UpdatedAt: base,
		})
	}

	page, err := svc.ListPosts(context.Background(), bob, ports.ListPostsFilter{Page: 0, Size: 2}, false)
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if len(page.Posts) != 2 {
		t.Fatalf("expected 2 posts on first page, got %d", len(page.Posts))
	}
	if page.TotalElements != 5 || page.TotalPages != 3 {
		t.Fatalf("unexpected totals: elements=%d pages=%d", page.TotalElements, page.TotalPages)
	}
	if !page.HasNext || page.HasPrevious {
		t.Fatalf("unexpected paging flags: next=%v prev=%v", page.HasNext, page.HasPrevious)
	}
	if page.Posts[0].Author == nil || page.Posts[0].Author.Username != "bob" {
		t.Fatalf("expected resolved author on listing")
	}

	last, err := svc.ListPosts(context.Background(), bob, ports.ListPostsFilter{Page: 2, Size: 2}, false)
	if err != nil {
		t.Fatalf("ListPosts last page: %v", err)
	}
	if len(last.Posts) != 1 || last.HasNext || !last.HasPrevious {
		t.Fatalf("unexpected last page: len=%d next=%v prev=%v", len(last.Posts), last.HasNext, last.HasPrevious)
	}
}

func TestPostService_ListPosts_MyPosts(t *testing.T) {
	svc, posts, users, _ := newTestPostService(t)
	bobUser := seedUser(t, users, "bob")
	bob := identityFor(bobUser.ID, "bob")

	posts.Create(context.Background(), &domain.Post{Title: "mine", AuthorID: bobUser.ID})
	posts.Create(context.Background(), &domain.Post{Title: "theirs", AuthorID: "someone-else"})

	page, err := svc.ListPosts(context.Background(), bob, ports.ListPostsFilter{}, true)
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if page.TotalElements != 1 || page.Posts[0].Post.Title != "mine" {
		t.Fatalf("expected only bob's post, got %+v", page.Posts)
	}
}
