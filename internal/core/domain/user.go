package domain

import (
	"errors"
	"time"
)

// Role is the fixed set of authorities a user can hold. The canonical string
// form is the one persisted and snapshot into token claims.
type Role string

const (
	RoleUser  Role = "ROLE_USER"
	RoleAdmin Role = "ROLE_ADMIN"
)

// AllRoles is the seed set created at startup.
var AllRoles = []Role{RoleUser, RoleAdmin}

// ParseRole maps a stored role name to its Role value.
func ParseRole(name string) (Role, bool) {
	switch Role(name) {
	case RoleUser:
		return RoleUser, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return "", false
}

var ErrUserNotFound = errors.New("user not found")
var ErrUsernameExists = errors.New("username already exists")
var ErrEmailExists = errors.New("email already exists")
var ErrInvalidCredentials = errors.New("invalid username or password")
var ErrTooManyAttempts = errors.New("too many failed login attempts")
var ErrRoleNotSeeded = errors.New("default role not seeded")
var ErrUnauthorized = errors.New("authentication required")
var ErrAccessDenied = errors.New("access denied")

// User models an account. PasswordHash is the bcrypt verification secret and
// is never serialized or logged.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Gender       string    `json:"gender"`
	Email        string    `json:"email"`
	Roles        []Role    `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasRole reports whether the user holds the given role.
func (u *User) HasRole(r Role) bool {
	for _, have := range u.Roles {
		if have == r {
			return true
		}
	}
	return false
}

// RoleNames returns the canonical string form of the user's role set.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, string(r))
	}
	return names
}

// Identity is the request-scoped authenticated principal attached by the
// bearer middleware. It lives for exactly one request; it is an explicit
// context value, never ambient process-wide state.
type Identity struct {
	UserID   string
	Username string
	Roles    []Role
}

// IsAdmin reports whether the identity carries the admin role.
func (id *Identity) IsAdmin() bool {
	for _, r := range id.Roles {
		if r == RoleAdmin {
			return true
		}
	}
	return false
}
