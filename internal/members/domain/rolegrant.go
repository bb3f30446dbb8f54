package domain

import "time"

// RoleGrant records a role assignment. Grants are never updated in place:
// revocation sets RevokedAt, and a re-grant creates a new row, leaving the
// full history queryable. Only rows with RevokedAt == nil are active.
type RoleGrant struct {
	ID        string
	UserID    string
	Role      Role
	GrantedBy string
	RevokedAt *time.Time
	CreatedAt time.Time
}

// Active reports whether the grant is currently in force.
func (g RoleGrant) Active() bool { return g.RevokedAt == nil }
