package http

import (
	"encoding/json"
	"net/http"

	"github.com/keystackhq/keystack/internal/members/domain"
	"github.com/keystackhq/keystack/internal/members/service"
	"github.com/keystackhq/keystack/pkg/httpx"
	"github.com/keystackhq/keystack/pkg/membersdk"
)

type InviteCreateHandler struct {
	InviteService *service.InviteService
}

// ServeHTTP godoc
//
//	@Summary		Create Invitation
//	@Description	Mint an invitation for an email address to join the caller's office with a given role.
//	@Description	Callers may only grant roles ranked strictly below their own.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		membersdk.InviteRequest		true	"Invite request"
//	@Success		200		{object}	membersdk.InviteResponse	"invitation_id, invite_token, expires_at"
//	@Failure		400		{object}	membersdk.ErrorResponse		"error, error_description"
//	@Failure		403		{object}	membersdk.ErrorResponse		"error, error_description"
//	@Failure		409		{object}	membersdk.ErrorResponse		"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invitations [post].
func (h *InviteCreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req membersdk.InviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "email is required")
		return
	}
	if req.Role == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "role is required")
		return
	}

	actor, ok := actorFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	params := service.CreateParams{
		Email:    req.Email,
		Role:     domain.Role(req.Role),
		OfficeID: httpx.OfficeIDFromContext(ctx),
	}
	if req.TeamID != "" {
		params.TeamID = &req.TeamID
	}

	inv, token, err := h.InviteService.Create(ctx, actor, params)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, membersdk.InviteResponse{
		InvitationID: inv.ID,
		Email:        inv.Email,
		Role:         string(inv.Role),
		InviteToken:  token,
		ExpiresAt:    inv.ExpiresAt.Unix(),
	})
}
