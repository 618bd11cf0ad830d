package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/NguyenThanhNhut13/NguyenThanhNhut-PostManagementSystem/internal/api/metrics"
	"github.com/NguyenThanhNhut13/NguyenThanhNhut-PostManagementSystem/internal/core/domain"
)

// Tier is the capability a route demands.
type Tier int

const (
	TierPublic Tier = iota
	TierAuthenticated
	TierAdmin
)

func (t Tier) String() string {
	switch t {
	case TierPublic:
		return "public"
	case TierAuthenticated:
		return "authenticated"
	case TierAdmin:
		return "admin"
	}
	return "unknown"
}

// MethodAny matches every HTTP method in a policy rule.
const MethodAny = "*"

// Rule binds (method, path pattern) to a required tier. Patterns are literal
// paths, optionally ending in "/**" which matches the prefix itself and any
// deeper sub-path.
type Rule struct {
	Method  string
	Pattern string
	Tier    Tier
}

// Policy is the compiled route authorization table. Evaluation is pure:
// the same (method, path, identity) always yields the same result.
type Policy struct {
	rules []Rule
}

func NewPolicy(rules []Rule) *Policy {
	return &Policy{rules: append([]Rule(nil), rules...)}
}

// DefaultPolicy is the service's compiled-in route table. Routes absent from
// the table are denied: the permissive fallback the table replaced hid the
// admin rules behind a blanket permit.
func DefaultPolicy() *Policy {
	return NewPolicy([]Rule{
		{http.MethodPost, "/api/auth/register", TierPublic},
		{http.MethodPost, "/api/auth/login", TierPublic},
		{http.MethodGet, "/health/**", TierPublic},
		{http.MethodGet, "/metrics", TierPublic},
		{http.MethodGet, "/swagger/**", TierPublic},
		{http.MethodGet, "/api/users/me", TierAuthenticated},
		{MethodAny, "/api/posts/**", TierAuthenticated},
		{http.MethodGet, "/api/users/**", TierAdmin},
		{http.MethodDelete, "/api/users/**", TierAdmin},
	})
}

// RequiredTier resolves the tier demanded for (method, path). Matching is
// method-first, then the most specific pattern wins. The second return is
// false when no rule matches.
func (p *Policy) RequiredTier(method, path string) (Tier, bool) {
	best := -1
	var tier Tier
	for _, r := range p.rules {
		if r.Method != MethodAny && r.Method != method {
			continue
		}
		if !patternMatches(r.Pattern, path) {
			continue
		}
		if s := patternSpecificity(r.Pattern); s > best {
			best = s
			tier = r.Tier
		}
	}
	return tier, best >= 0
}

// patternSpecificity orders matching rules so the most specific one wins
// regardless of table order. A literal pattern always beats a wildcard of
// the same length; wildcards are ranked by their fixed prefix.
func patternSpecificity(pattern string) int {
	if prefix, ok := strings.CutSuffix(pattern, "/**"); ok {
		return len(prefix) * 2
	}
	return len(pattern)*2 + 1
}

// Evaluate decides whether identity (nil = anonymous) may perform
// (method, path). It returns nil on allow, domain.ErrUnauthorized when
// identity is required but absent, and domain.ErrAccessDenied when the
// identity lacks the required role. Unmatched routes deny.
func (p *Policy) Evaluate(method, path string, identity *domain.Identity) error {
	tier, matched := p.RequiredTier(method, path)
	if !matched {
		if identity == nil {
			return domain.ErrUnauthorized
		}
		return domain.ErrAccessDenied
	}

	switch tier {
	case TierPublic:
		return nil
	case TierAuthenticated:
		if identity == nil {
			return domain.ErrUnauthorized
		}
		return nil
	case TierAdmin:
		if identity == nil {
			return domain.ErrUnauthorized
		}
		if !identity.IsAdmin() {
			return domain.ErrAccessDenied
		}
		return nil
	}
	return domain.ErrAccessDenied
}

func patternMatches(pattern, path string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "/**"); ok {
		return path == prefix || strings.HasPrefix(path, prefix+"/")
	}
	return pattern == path
}

// Authorize enforces the policy table before the route handler runs.
// Denials surface as domain errors for the central error handler to map.
func Authorize(policy *Policy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if err := policy.Evaluate(req.Method, req.URL.Path, IdentityFrom(c)); err != nil {
				label := "unmatched"
				if tier, ok := policy.RequiredTier(req.Method, req.URL.Path); ok {
					label = tier.String()
				}
				metrics.PolicyDenialsTotal.WithLabelValues(label).Inc()
				return err
			}
			return next(c)
		}
	}
}
