package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/NguyenThanhNhut13/NguyenThanhNhut-PostManagementSystem/internal/core/domain"
	"github.com/NguyenThanhNhut13/NguyenThanhNhut-PostManagementSystem/internal/core/ports"
	"github.com/NguyenThanhNhut13/NguyenThanhNhut-PostManagementSystem/internal/token"
)

// LoginThrottle abstracts the failed-login counter (Redis).
type LoginThrottle interface {
	TooManyFailures(ctx context.Context, username string) (bool, error)
	RecordFailure(ctx context.Context, username string) error
	Reset(ctx context.Context, username string) error
}

// AuthService implements registration and login.
type AuthService struct {
	users    ports.UserRepository
	roles    ports.RoleRepository
	codec    *token.Codec
	throttle LoginThrottle
	audit    ports.AuditRecorder
	log      zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	roles ports.RoleRepository,
	codec *token.Codec,
	throttle LoginThrottle,
	audit ports.AuditRecorder,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		roles:    roles,
		codec:    codec,
		throttle: throttle,
		audit:    audit,
		log:      log,
	}
}

// Register creates a new account with exactly the default role. The plaintext
// password is hashed immediately and never stored or logged.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	taken, err := s.users.ExistsByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrUsernameExists
	}

	taken, err = s.users.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	defaultRole, err := s.roles.FindByName(ctx, string(domain.RoleUser))
	if err != nil {
		return nil, domain.ErrRoleNotSeeded
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     in.Username,
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Gender:       in.Gender,
		Email:        in.Email,
		Roles:        []domain.Role{defaultRole},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.audit.Record(domain.AuditEvent{
		Action:    domain.AuditUserRegistered,
		Username:  created.Username,
		Timestamp: now,
	})
	return created, nil
}

// Login verifies credentials and mints a token carrying a snapshot of the
// account's current role set.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", domain.ErrInvalidCredentials
	}

	blocked, err := s.throttle.TooManyFailures(ctx, username)
	if err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("login throttle check failed, proceeding")
	} else if blocked {
		return "", domain.ErrTooManyAttempts
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return "", s.failLogin(ctx, username, "unknown username")
		}
		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", s.failLogin(ctx, username, "password mismatch")
	}

	signed, err := s.codec.Issue(user.Username, user.Roles, time.Now().UTC())
	if err != nil {
		return "", err
	}

	if err := s.throttle.Reset(ctx, username); err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("failed to reset login throttle")
	}
	s.audit.Record(domain.AuditEvent{
		Action:    domain.AuditLoginSucceeded,
		Username:  username,
		Timestamp: time.Now().UTC(),
	})
	return signed, nil
}

func (s *AuthService) failLogin(ctx context.Context, username, detail string) error {
	if err := s.throttle.RecordFailure(ctx, username); err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("failed to record login failure")
	}
	s.audit.Record(domain.AuditEvent{
		Action:    domain.AuditLoginFailed,
		Username:  username,
		Detail:    detail,
		Timestamp: time.Now().UTC(),
	})
	return domain.ErrInvalidCredentials
}
