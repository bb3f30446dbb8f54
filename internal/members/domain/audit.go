package domain

import "time"

// Audit actions recorded by the provisioning and reconciliation flows.
const (
	AuditInvitationCreated = "invitation.created"
	AuditInvitationResent  = "invitation.resent"
	AuditInvitationRevoked = "invitation.revoked"
	AuditInvitationExpired = "invitation.expired"
	AuditInvitationRemoved = "invitation.removed"
	AuditInvitationAccept  = "invitation.accepted"

	AuditProfileProvisioned = "profile.provisioned"
	AuditProfileArchived    = "profile.archived"
	AuditProfileIncomplete  = "profile.incomplete"
	AuditProfileRepaired    = "profile.repaired"
	AuditProfileMerged      = "profile.merged"

	AuditMembershipAssigned     = "membership.assigned"
	AuditMembershipAssignFailed = "membership.assign_failed"
	AuditMembershipMoved        = "membership.moved"
	AuditMembershipRemoved      = "membership.removed"

	AuditRoleGranted     = "role.granted"
	AuditRoleGrantFailed = "role.grant_failed"
	AuditRoleRevoked     = "role.revoked"
)

// AuditEntry is an append-only record of a state-changing step. Entries are
// never mutated or deleted; there are no update statements for them anywhere
// in the store.
type AuditEntry struct {
	ID        string
	ActorID   string
	Action    string
	TargetID  string
	Details   string // JSON-encoded context (ids, names, error text)
	CreatedAt time.Time
}
