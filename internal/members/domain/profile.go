package domain

import (
	"fmt"
	"time"
)

type ProfileStatus string

const (
	ProfileActive    ProfileStatus = "active"
	ProfileInactive  ProfileStatus = "inactive"
	ProfileSuspended ProfileStatus = "suspended"
	// ProfileArchived marks rows whose email has been released for reuse.
	// The real address survives in OriginalEmail.
	ProfileArchived ProfileStatus = "archived"
)

// Profile is the member record. Its id equals the identity credential's id
// (1:1 ownership). An active profile must eventually have both an office and
// a primary team; that invariant is enforced by the consistency verifier,
// not by the store.
type Profile struct {
	ID    string // equals the credential id
	Email string
	// OriginalEmail preserves the real address across archival so repairs
	// can restore it losslessly.
	OriginalEmail      string
	Name               string
	Phone              string
	Status             ProfileStatus
	OfficeID           string
	PrimaryTeamID      *string // nil only transiently during provisioning
	PasswordSet        bool
	OnboardingComplete bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Configured reports whether the profile has reached the state the
// consistency verifier accepts as complete.
func (p Profile) Configured() bool {
	return p.OfficeID != "" && p.PrimaryTeamID != nil && *p.PrimaryTeamID != ""
}

// ArchivedEmail derives the sentinel address that frees the real email for
// reuse under the unique index. The row id and timestamp keep sentinels
// unique; the .invalid TLD guarantees the address can never be delivered to.
func ArchivedEmail(profileID string, at time.Time) string {
	return fmt.Sprintf("archived+%s+%d@invalid.local", profileID, at.Unix())
}
