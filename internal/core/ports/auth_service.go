package ports

import (
	"context"

	"github.com/NguyenThanhNhut13/NguyenThanhNhut-PostManagementSystem/internal/core/domain"
)

// RegisterInput is the DTO passed from the transport layer to AuthService.
type RegisterInput struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Gender    string
	Email     string
}

// AuthService implements registration and login.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	// Login verifies credentials and mints a fresh bearer token. Each
	// successful call issues an independent token; no session state exists.
	Login(ctx context.Context, username, password string) (string, error)
}
