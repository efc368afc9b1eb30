package service

import (
	"fmt"
	"slices"

	"github.com/NagawaEsther/live-well/internal/domain"
)

// Guard makes access decisions from an identity claim alone. It never
// touches storage. A nil claim is always ErrUnauthenticated.
type Guard struct{}

// NewGuard creates a Guard.
func NewGuard() *Guard {
	return &Guard{}
}

// RequireAdmin allows only administrators.
func (g *Guard) RequireAdmin(claim *domain.IdentityClaim) error {
	return g.RequireRole(claim, domain.RoleAdmin)
}

// RequireSelfOrAdmin allows administrators and the owner of targetID.
func (g *Guard) RequireSelfOrAdmin(claim *domain.IdentityClaim, targetID int64) error {
	if claim == nil {
		return domain.ErrUnauthenticated
	}
	if claim.IsAdmin() || claim.UserID == targetID {
		return nil
	}
	return fmt.Errorf("%w: user %d may not act on user %d", domain.ErrForbidden, claim.UserID, targetID)
}

// RequireRole allows claims holding any of the given roles.
func (g *Guard) RequireRole(claim *domain.IdentityClaim, roles ...domain.Role) error {
	if claim == nil {
		return domain.ErrUnauthenticated
	}
	if slices.Contains(roles, claim.Role) {
		return nil
	}
	return fmt.Errorf("%w: role %s not permitted", domain.ErrForbidden, claim.Role)
}
