// Package membersdk contains the wire types for the members service API and
// a small client for integration tooling. Handlers and tests share these
// structs so the contract lives in one place.
package membersdk

// ErrorResponse is the uniform error body. Error carries the machine code,
// ErrorDescription the human text. UserID and TeamName are present only on
// partial-provisioning failures where an operator needs the ids.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
	UserID           string `json:"user_id,omitempty"`
	TeamName         string `json:"team_name,omitempty"`
}

// InviteRequest mints an invitation for an email address.
type InviteRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	// TeamID pins the invitee to an existing team. Empty means a personal
	// team is created on accept.
	TeamID string `json:"team_id,omitempty"`
}

type InviteResponse struct {
	InvitationID string `json:"invitation_id"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	// InviteToken is returned exactly once; only its fingerprint is stored.
	InviteToken string `json:"invite_token"`
	ExpiresAt   int64  `json:"expires_at"`
}

// AcceptRequest redeems an invitation token.
type AcceptRequest struct {
	Token    string `json:"token"`
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password,omitempty"`
}

// AcceptWarning flags a non-fatal step failure on an otherwise committed
// account.
type AcceptWarning struct {
	Code     string `json:"code"`
	TeamName string `json:"team_name,omitempty"`
}

type AcceptResponse struct {
	UserID   string          `json:"user_id"`
	OfficeID string          `json:"office_id"`
	TeamID   string          `json:"team_id,omitempty"`
	Role     string          `json:"role"`
	Resumed  bool            `json:"resumed,omitempty"`
	Warnings []AcceptWarning `json:"warnings,omitempty"`
}

type RevokeResponse struct {
	Status string `json:"status"`
}

// RepairUserRequest fills in whatever a half-provisioned account is missing.
type RepairUserRequest struct {
	OfficeID      string `json:"office_id,omitempty"`
	TeamID        string `json:"team_id,omitempty"`
	Role          string `json:"role,omitempty"`
	ResetPassword bool   `json:"reset_password,omitempty"`
	Unban         bool   `json:"unban,omitempty"`
}

type RepairUserResponse struct {
	Repaired []string `json:"repaired"`
	// TempPassword is set only when reset_password was requested.
	TempPassword string `json:"temp_password,omitempty"`
}

// MergeUsersRequest folds the remove-side account into the keep-side one.
type MergeUsersRequest struct {
	KeepUserID   string `json:"keep_user_id"`
	RemoveUserID string `json:"remove_user_id"`
}

type MergeUsersResponse struct {
	Status string `json:"status"`
}

// FixCrossOfficeRequest repairs memberships whose team belongs to a
// different office than the member. Strategy is one of move_user,
// remove_membership, duplicate_team. UserID narrows the scan to one account.
type FixCrossOfficeRequest struct {
	Strategy string `json:"strategy"`
	UserID   string `json:"user_id,omitempty"`
}

type CrossOfficeDetail struct {
	UserID string `json:"user_id"`
	TeamID string `json:"team_id"`
	Action string `json:"action"`
	Error  string `json:"error,omitempty"`
}

type FixCrossOfficeResponse struct {
	Scanned int                 `json:"scanned"`
	Fixed   int                 `json:"fixed"`
	Details []CrossOfficeDetail `json:"details"`
}

// BootstrapRequest provisions the first office and platform admin on an
// empty system.
type BootstrapRequest struct {
	Token      string `json:"token"`
	OfficeName string `json:"office_name"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Password   string `json:"password"`
}

type BootstrapResponse struct {
	UserID      string `json:"user_id"`
	OfficeID    string `json:"office_id"`
	TeamID      string `json:"team_id"`
	AccessToken string `json:"access_token"`
}

type HealthChecks struct {
	Database string `json:"database"`
	Identity string `json:"identity"`
}

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
