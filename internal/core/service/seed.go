package service

import (
	"context"
	"fmt"

	"github.com/NguyenThanhNhut13/NguyenThanhNhut-PostManagementSystem/internal/core/domain"
	"github.com/NguyenThanhNhut13/NguyenThanhNhut-PostManagementSystem/internal/core/ports"
)

// SeedRoles upserts the fixed role set. Idempotent: running it on every
// startup leaves exactly one row per role name. A failure here must abort
// startup, since registration depends on the default role existing.
func SeedRoles(ctx context.Context, roles ports.RoleRepository) error {
	for _, role := range domain.AllRoles {
		if err := roles.Upsert(ctx, role); err != nil {
			return fmt.Errorf("seed role %s: %w", role, err)
		}
	}
	return nil
}
