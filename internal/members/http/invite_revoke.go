package http

import (
	"net/http"

	"github.com/keystackhq/keystack/internal/members/service"
	"github.com/keystackhq/keystack/pkg/httpx"
	"github.com/keystackhq/keystack/pkg/membersdk"
)

type InviteRevokeHandler struct {
	InviteService *service.InviteService
}

// ServeHTTP godoc
//
//	@Summary		Revoke Invitation
//	@Description	Retire a pending invitation so its token can no longer be redeemed.
//	@Tags			Invitations
//	@Produce		json
//	@Param			id	path		string						true	"Invitation id"
//	@Success		200	{object}	membersdk.RevokeResponse	"status"
//	@Failure		400	{object}	membersdk.ErrorResponse		"error, error_description"
//	@Failure		404	{object}	membersdk.ErrorResponse		"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invitations/{id}/revoke [post].
func (h *InviteRevokeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
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

	if err := h.InviteService.Revoke(ctx, actor, id); err != nil {
		if err == service.ErrInvalidToken {
			writeError(w, http.StatusNotFound, "not_found", "Invitation not found")
			return
		}
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, membersdk.RevokeResponse{Status: "revoked"})
}
