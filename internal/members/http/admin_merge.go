package http

import (
	"encoding/json"
	"net/http"

	"github.com/keystackhq/keystack/internal/members/service"
	"github.com/keystackhq/keystack/pkg/httpx"
	"github.com/keystackhq/keystack/pkg/membersdk"
)

type MergeUsersHandler struct {
	ReconcileService *service.ReconcileService
}

// ServeHTTP godoc
//
//	@Summary		Merge Duplicate Users
//	@Description	Fold a duplicate account into the one being kept. Memberships and role grants
//	@Description	transfer only when the kept account has none of its own; the removed account's
//	@Description	credential and profile are deleted. Audit history stays where it was written.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			request	body		membersdk.MergeUsersRequest		true	"Merge request"
//	@Success		200		{object}	membersdk.MergeUsersResponse	"status"
//	@Failure		400		{object}	membersdk.ErrorResponse			"error, error_description"
//	@Failure		404		{object}	membersdk.ErrorResponse			"error, error_description"
//	@Failure		409		{object}	membersdk.ErrorResponse			"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/admin/users/merge [post].
func (h *MergeUsersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := actorFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	var req membersdk.MergeUsersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if req.KeepUserID == "" || req.RemoveUserID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "keep_user_id and remove_user_id are required")
		return
	}
	if req.KeepUserID == req.RemoveUserID {
		writeError(w, http.StatusBadRequest, "invalid_request", "cannot merge a user into itself")
		return
	}

	if err := h.ReconcileService.MergeUsers(ctx, actor.ID, req.KeepUserID, req.RemoveUserID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, membersdk.MergeUsersResponse{Status: "merged"})
}
