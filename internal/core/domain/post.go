package domain

import (
	"errors"
	"time"
)

var ErrPostNotFound = errors.New("post not found")

// Post is the core content aggregate. AuthorID is set once at creation and
// never changes; ownership checks compare it against the acting identity.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	AuthorID  string    `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OwnedBy reports whether the post belongs to the given user id.
func (p *Post) OwnedBy(userID string) bool {
	return p.AuthorID == userID
}
