package service

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/NguyenThanhNhut13/NguyenThanhNhut-PostManagementSystem/internal/core/domain"
	"github.com/NguyenThanhNhut13/NguyenThanhNhut-PostManagementSystem/internal/core/ports"
)

// In-memory stand-ins for the Mongo repositories and Redis throttle, shared
// by the service tests in this package.

type stubUserRepo struct {
	users  map[string]*domain.User // keyed by username
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Roles = append([]domain.Role(nil), u.Roles...)
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUsernameExists
	}
	r.nextID++
	created := cloneUser(user)
	created.ID = "u" + strconv.Itoa(r.nextID)
	r.users[created.Username] = cloneUser(created)
	return created, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if u, ok := r.users[username]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	_, ok := r.users[username]
	return ok, nil
}

func (r *stubUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) FindAll(_ context.Context) ([]*domain.User, error) {
	all := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		all = append(all, cloneUser(u))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Username < all[j].Username })
	return all, nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	for username, u := range r.users {
		if u.ID == id {
			delete(r.users, username)
			return nil
		}
	}
	return domain.ErrUserNotFound
}

type stubRoleRepo struct {
	roles map[string]domain.Role
}

func newStubRoleRepo(seed ...domain.Role) *stubRoleRepo {
	r := &stubRoleRepo{roles: make(map[string]domain.Role)}
	for _, role := range seed {
		r.roles[string(role)] = role
	}
	return r
}

func (r *stubRoleRepo) FindByName(_ context.Context, name string) (domain.Role, error) {
	if role, ok := r.roles[name]; ok {
		return role, nil
	}
	return "", domain.ErrRoleNotSeeded
}

func (r *stubRoleRepo) Upsert(_ context.Context, role domain.Role) error {
	r.roles[string(role)] = role
	return nil
}

type stubPostRepo struct {
	posts  map[string]*domain.Post
	nextID int
}

func newStubPostRepo() *stubPostRepo {
	return &stubPostRepo{posts: make(map[string]*domain.Post)}
}

func clonePost(p *domain.Post) *domain.Post {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

func (r *stubPostRepo) Create(_ context.Context, post *domain.Post) (*domain.Post, error) {
	r.nextID++
	created := clonePost(post)
	created.ID = "p" + strconv.Itoa(r.nextID)
	r.posts[created.ID] = clonePost(created)
	return created, nil
}

func (r *stubPostRepo) FindByID(_ context.Context, id string) (*domain.Post, error) {
	if p, ok := r.posts[id]; ok {
		return clonePost(p), nil
	}
	return nil, domain.ErrPostNotFound
}

func (r *stubPostRepo) List(_ context.Context, filter ports.ListPostsFilter) ([]*domain.Post, int64, error) {
	matched := make([]*domain.Post, 0, len(r.posts))
	for _, p := range r.posts {
		if filter.AuthorID != "" && p.AuthorID != filter.AuthorID {
			continue
		}
		matched = append(matched, clonePost(p))
	}

	sort.Slice(matched, func(i, j int) bool {
		var less bool
		switch filter.SortBy {
		case "title":
			less = matched[i].Title < matched[j].Title
		case "updated_at":
			less = matched[i].UpdatedAt.Before(matched[j].UpdatedAt)
		default:
			less = matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		if !filter.Ascending {
			return !less
		}
		return less
	})

	total := int64(len(matched))
	start := filter.Page * filter.Size
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.Size
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *stubPostRepo) Update(_ context.Context, post *domain.Post) (*domain.Post, error) {
	if _, ok := r.posts[post.ID]; !ok {
		return nil, domain.ErrPostNotFound
	}
	r.posts[post.ID] = clonePost(post)
	return clonePost(post), nil
}

func (r *stubPostRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.posts[id]; !ok {
		return domain.ErrPostNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *stubPostRepo) DeleteByAuthor(_ context.Context, authorID string) error {
	for id, p := range r.posts {
		if p.AuthorID == authorID {
			delete(r.posts, id)
		}
	}
	return nil
}

type stubThrottle struct {
	failures map[string]int
	limit    int
}

func newStubThrottle(limit int) *stubThrottle {
	return &stubThrottle{failures: make(map[string]int), limit: limit}
}

func (t *stubThrottle) TooManyFailures(_ context.Context, username string) (bool, error) {
	return t.limit > 0 && t.failures[username] >= t.limit, nil
}

func (t *stubThrottle) RecordFailure(_ context.Context, username string) error {
	t.failures[username]++
	return nil
}

func (t *stubThrottle) Reset(_ context.Context, username string) error {
	delete(t.failures, username)
	return nil
}

type stubAuditRecorder struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (a *stubAuditRecorder) Record(event domain.AuditEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, event)
}

func (a *stubAuditRecorder) actions() []domain.AuditAction {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.AuditAction, 0, len(a.events))
	for _, e := range a.events {
		out = append(out, e.Action)
	}
	return out
}

type stubAuditRepo struct {
	mu       sync.Mutex
	inserted []*domain.AuditEvent
	err      error
}

func (r *stubAuditRepo) Insert(_ context.Context, event *domain.AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.inserted = append(r.inserted, event)
	return nil
}
