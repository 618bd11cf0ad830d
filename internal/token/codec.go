// Package token issues and verifies the signed bearer tokens used for
// stateless authentication. Claims are a snapshot of the user's role set at
// issuance time; only signature and expiry are re-checked per request.
package token

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/NguyenThanhNhut13/NguyenThanhNhut-PostManagementSystem/internal/core/domain"
)

var ErrTokenExpired = errors.New("token expired")
var ErrTokenInvalid = errors.New("token invalid")

// Claims is the decoded token payload.
type Claims struct {
	IsAdmin bool `json:"isAdmin"`
	IsUser  bool `json:"isUser"`
	jwt.RegisteredClaims
}

// Codec signs and parses HS256 tokens with a single process-lifetime key.
type Codec struct {
	key []byte
	ttl time.Duration
}

// NewCodec decodes the base64 signing secret and returns a ready Codec.
// A missing or malformed secret is a startup configuration error; callers
// must treat it as fatal rather than deferring to request time.
func NewCodec(base64Secret string, ttl time.Duration) (*Codec, error) {
	if base64Secret == "" {
		return nil, errors.New("token: signing secret is not configured")
	}
	key, err := base64.StdEncoding.DecodeString(base64Secret)
	if err != nil {
		return nil, fmt.Errorf("token: signing secret is not valid base64: %w", err)
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Codec{key: key, ttl: ttl}, nil
}

// Issue mints a token for username. The isAdmin/isUser flags reflect the role
// set at this moment and are never refreshed: a later role change does not
// affect the token until it expires.
func (c *Codec) Issue(username string, roles []domain.Role, now time.Time) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	for _, r := range roles {
		switch r {
		case domain.RoleAdmin:
			claims.IsAdmin = true
		case domain.RoleUser:
			claims.IsUser = true
		}
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.key)
}

// Parse verifies the signature and decodes the payload. Expired tokens yield
// ErrTokenExpired; any other signature or format failure yields
// ErrTokenInvalid. The two are distinct because the middleware reports them
// as different 401 bodies.
func (c *Codec) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !tkn.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// Validate reports whether tokenString parses, belongs to expectedUsername,
// and has not expired. It never returns an error; failure kinds collapse to
// false on this path.
func (c *Codec) Validate(tokenString, expectedUsername string) bool {
	claims, err := c.Parse(tokenString)
	if err != nil {
		return false
	}
	return claims.Subject == expectedUsername
}
