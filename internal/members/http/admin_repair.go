package http

import (
	"encoding/json"
	"net/http"

	"github.com/keystackhq/keystack/internal/members/domain"
	"github.com/keystackhq/keystack/internal/members/service"
	"github.com/keystackhq/keystack/pkg/httpx"
	"github.com/keystackhq/keystack/pkg/membersdk"
)

type RepairUserHandler struct {
	ReconcileService *service.ReconcileService
}

// ServeHTTP godoc
//
//	@Summary		Repair User
//	@Description	Complete a half-provisioned account: fill in whichever of office, team membership,
//	@Description	primary team and role grant is missing. Fields already present are left untouched.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"User id"
//	@Param			request	body		membersdk.RepairUserRequest		true	"Repair request"
//	@Success		200		{object}	membersdk.RepairUserResponse	"repaired, temp_password"
//	@Failure		400		{object}	membersdk.ErrorResponse			"error, error_description"
//	@Failure		404		{object}	membersdk.ErrorResponse			"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/admin/users/{id}/repair [post].
func (h *RepairUserHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := actorFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}
	userID := r.PathValue("id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "user id is required")
		return
	}

	var req membersdk.RepairUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	params := service.RepairParams{
		UserID:        userID,
		OfficeID:      req.OfficeID,
		Role:          domain.Role(req.Role),
		ResetPassword: req.ResetPassword,
		Unban:         req.Unban,
	}
	if req.TeamID != "" {
		params.TeamID = &req.TeamID
	}

	res, err := h.ReconcileService.RepairUser(ctx, actor.ID, params)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, membersdk.RepairUserResponse{
		Repaired:     res.Repaired,
		TempPassword: res.TempPassword,
	})
}
