package handler

import "time"

// baseResponse is the success envelope for all 2xx responses.
type baseResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// --- Auth ---

type registerRequest struct {
	Username  string `json:"username"   validate:"required,min=3,max=50"`
	Password  string `json:"password"   validate:"required,min=6"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"  validate:"required"`
	Gender    string `json:"gender"     validate:"required,oneof=M F"`
	Email     string `json:"email"      validate:"required,email"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerResponse struct {
	ID        string   `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Gender    string   `json:"gender"`
	Roles     []string `json:"roles"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// --- Users ---

// Response-only types owned by the transport layer.
// These are intentionally separate from domain types so the JSON contract is
// not coupled to internal service changes.

type userResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Gender    string `json:"gender"`
	Role      string `json:"role"`
}

// --- Posts ---

type createPostRequest struct {
	Title   string `json:"title"   validate:"required,max=255"`
	Content string `json:"content" validate:"required"`
}

type updatePostRequest struct {
	Title   string `json:"title"   validate:"required,max=255"`
	Content string `json:"content" validate:"required"`
}

type postResponse struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Content   string       `json:"content"`
	Author    userResponse `json:"author"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

type paginatedPostsResponse struct {
	Posts         []postResponse `json:"posts"`
	CurrentPage   int            `json:"current_page"`
	TotalPages    int            `json:"total_pages"`
	TotalElements int64          `json:"total_elements"`
	HasNext       bool           `json:"has_next"`
	HasPrevious   bool           `json:"has_previous"`
}
