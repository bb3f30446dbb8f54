package domain

import "time"

// Office is the tenant boundary. Invitations are owned by the inviter's
// office; teams belong to exactly one office.
type Office struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
