package service

import (
	"errors"
	"fmt"
)

// Sentinel errors, one per machine-readable failure code on the wire.
// Validation, authorization and conflict errors are returned before any
// state is mutated; the typed errors below describe partially-committed
// outcomes and carry the ids an operator needs.
var (
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrAlreadyInvited   = errors.New("a pending invitation already exists for this email")
	ErrUserExists       = errors.New("an active account already exists for this email")
	ErrUserInactive     = errors.New("an inactive account exists for this email")
	ErrInvalidRole      = errors.New("invalid role")
	ErrRoleNotPermitted = errors.New("inviter role may not grant the requested role")
	ErrInvalidTeam      = errors.New("team does not exist or belongs to a different office")

	ErrInvalidToken      = errors.New("invitation not found")
	ErrInvitationUsed    = errors.New("invitation has already been accepted")
	ErrInvitationRevoked = errors.New("invitation has been revoked")
	ErrInvitationExpired = errors.New("invitation has expired")
	ErrInvalidStatus     = errors.New("invitation status does not permit this operation")

	ErrUserNotFound      = errors.New("user not found")
	ErrLastPlatformAdmin = errors.New("operation would remove the last active platform admin")

	ErrAlreadyBootstrapped  = errors.New("the system has already been bootstrapped")
	ErrBootstrapUnavailable = errors.New("bootstrap token missing or incorrect")
)

// Warning codes attached to a committed-but-degraded Accept response.
const (
	WarnTeamAssignmentFailed = "team_assignment_failed"
	WarnRoleAssignmentFailed = "role_assignment_failed"
)

// IncompleteProfileError is the critical-consistency failure: the account
// was committed but the verifier found mandatory fields missing. It carries
// the created user id so the caller can route into reconciliation rather
// than treating this as a bare error.
type IncompleteProfileError struct {
	UserID string
}

func (e *IncompleteProfileError) Error() string {
	return fmt.Sprintf("provisioned profile %s is incomplete", e.UserID)
}

// TeamAssignmentError reports a failed membership step with enough context
// (team name, user id) for manual follow-up. The overall flow treats it as
// non-fatal: the credential and profile already exist and are not rolled back.
type TeamAssignmentError struct {
	UserID   string
	TeamID   string
	TeamName string
	Err      error
}

func (e *TeamAssignmentError) Error() string {
	return fmt.Sprintf("failed to assign user %s to team %q: %v", e.UserID, e.TeamName, e.Err)
}

func (e *TeamAssignmentError) Unwrap() error { return e.Err }
