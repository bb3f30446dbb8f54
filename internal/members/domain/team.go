package domain

import "time"

// AccessLevel is the access a member holds within a team.
type AccessLevel string

const (
	AccessAdmin  AccessLevel = "admin"
	AccessEdit   AccessLevel = "edit"
	AccessMember AccessLevel = "member"
)

// Team belongs to exactly one office. Personal teams are auto-created
// single-member teams for solo operation; OwnerID identifies whose personal
// team it is and makes creation idempotent per (owner, office).
type Team struct {
	ID        string
	Name      string
	OfficeID  string
	Personal  bool
	OwnerID   string // set only for personal teams
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TeamMembership links a member to a team. A member may belong to several
// teams; the profile's PrimaryTeamID marks which one is primary.
type TeamMembership struct {
	UserID      string
	TeamID      string
	AccessLevel AccessLevel
	CreatedAt   time.Time
}

// PersonalTeamName is the display name given to auto-created solo teams.
const PersonalTeamName = "Personal"
