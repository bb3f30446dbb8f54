package domain

import "fmt"

// Role is the closed set of platform roles. The invitation hierarchy is
// strict: a member may only invite roles ranked strictly below their own.
type Role string

const (
	RolePlatformAdmin Role = "platform_admin"
	RoleOfficeManager Role = "office_manager"
	RoleTeamLeader    Role = "team_leader"
	RoleSalesperson   Role = "salesperson"
	RoleAssistant     Role = "assistant"
)

// roleRank is the single data table behind every hierarchy decision.
// Higher rank outranks lower.
var roleRank = map[Role]int{
	RolePlatformAdmin: 5,
	RoleOfficeManager: 4,
	RoleTeamLeader:    3,
	RoleSalesperson:   2,
	RoleAssistant:     1,
}

// ParseRole validates a wire-format role string.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if _, ok := roleRank[r]; !ok {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// CanInvite reports whether r may issue an invitation for target.
// Only strictly lower-ranked roles are invitable.
func (r Role) CanInvite(target Role) bool {
	return r.Valid() && target.Valid() && r.Outranks(target)
}

// Outranks reports whether r is ranked strictly above other.
func (r Role) Outranks(other Role) bool {
	return roleRank[r] > roleRank[other]
}

// InvitableRoles returns the roles r may invite, highest first.
func InvitableRoles(r Role) []Role {
	ordered := []Role{RolePlatformAdmin, RoleOfficeManager, RoleTeamLeader, RoleSalesperson, RoleAssistant}
	out := make([]Role, 0, len(ordered))
	for _, target := range ordered {
		if r.CanInvite(target) {
			out = append(out, target)
		}
	}
	return out
}

// AccessLevel maps a member's role to the team access they receive when a
// membership row is created for them. Team leaders (and above) administer
// the team they join; everyone else gets edit access.
func (r Role) AccessLevel() AccessLevel {
	if roleRank[r] >= roleRank[RoleTeamLeader] {
		return AccessAdmin
	}
	return AccessEdit
}
