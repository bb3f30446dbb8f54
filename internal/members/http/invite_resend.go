package http

import (
	"net/http"

	"github.com/keystackhq/keystack/internal/members/service"
	"github.com/keystackhq/keystack/pkg/httpx"
	"github.com/keystackhq/keystack/pkg/membersdk"
)

type InviteResendHandler struct {
	InviteService *service.InviteService
}

// ServeHTTP godoc
//
//	@Summary		Resend Invitation
//	@Description	Re-arm a pending or expired invitation with a fresh token and a new expiry window.
//	@Tags			Invitations
//	@Produce		json
//	@Param			id	path		string						true	"Invitation id"
//	@Success		200	{object}	membersdk.InviteResponse	"invitation_id, invite_token, expires_at"
//	@Failure		400	{object}	membersdk.ErrorResponse		"error, error_description"
//	@Failure		404	{object}	membersdk.ErrorResponse		"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invitations/{id}/resend [post].
func (h *InviteResendHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := actorFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "invitation id is required")
		return
	}

	inv, token, err := h.InviteService.Resend(ctx, actor, id)
	if err != nil {
		if err == service.ErrInvalidToken {
			writeError(w, http.StatusNotFound, "not_found", "Invitation not found")
			return
		}
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
