package domain

import "time"

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationExpired  InvitationStatus = "expired"
	InvitationRevoked  InvitationStatus = "revoked"
)

// Invitation is a time-boxed offer for an email address to join an office
// (and optionally a team) with a specific role. At most one pending
// invitation exists per email, enforced by a partial unique index.
type Invitation struct {
	ID        string
	TokenHash string
	Email     string // always stored lower-cased
	Role      Role
	TeamID    *string
	OfficeID  string
	// LegacyAgencyID is the pre-migration office reference. Old rows may
	// carry only this field; ResolvedOfficeID falls back to it.
	LegacyAgencyID string
	InviterID      string
	Status         InvitationStatus
	ExpiresAt      time.Time
	AcceptedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ResolvedOfficeID returns the canonical office id, falling back to the
// legacy agency field when the canonical one is absent.
func (i Invitation) ResolvedOfficeID() string {
	if i.OfficeID != "" {
		return i.OfficeID
	}
	return i.LegacyAgencyID
}
