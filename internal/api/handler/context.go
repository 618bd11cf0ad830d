package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/NguyenThanhNhut13/NguyenThanhNhut-PostManagementSystem/internal/api/middleware"
	"github.com/NguyenThanhNhut13/NguyenThanhNhut-PostManagementSystem/internal/core/domain"
)

// ctxIdentity extracts the identity attached by the bearer middleware.
// Handlers behind authenticated routes still fast-fail here: the policy table
// is one layer, the operation body is another, and neither trusts the other.
func ctxIdentity(c echo.Context) (*domain.Identity, error) {
	id := middleware.IdentityFrom(c)
	if id == nil {
		return nil, domain.ErrUnauthorized
	}
	return id, nil
}
