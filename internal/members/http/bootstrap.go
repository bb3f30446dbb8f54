package http

import (
	"encoding/json"
	"net/http"

	"github.com/keystackhq/keystack/internal/members/service"
	"github.com/keystackhq/keystack/pkg/httpx"
	"github.com/keystackhq/keystack/pkg/membersdk"
)

type BootstrapHandler struct {
	BootstrapService *service.BootstrapService
}

// ServeHTTP godoc
//
//	@Summary		Bootstrap First Admin
//	@Description	One-time setup on an empty system: create the initial office and platform admin and
//	@Description	return a bearer token for them. Guarded by a deploy-time shared token and rejected
//	@Description	once any profile exists.
//	@Tags			System
//	@Accept			json
//	@Produce		json
//	@Param			request	body		membersdk.BootstrapRequest	true	"Bootstrap request"
//	@Success		200		{object}	membersdk.BootstrapResponse	"user_id, office_id, access_token"
//	@Failure		400		{object}	membersdk.ErrorResponse		"error, error_description"
//	@Failure		403		{object}	membersdk.ErrorResponse		"error, error_description"
//	@Failure		409		{object}	membersdk.ErrorResponse		"error, error_description"
//	@Router			/v1/bootstrap [post].
func (h *BootstrapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req membersdk.BootstrapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if req.Email == "" || req.Password == "" || req.OfficeName == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "office_name, email and password are required")
		return
	}

	res, err := h.BootstrapService.Bootstrap(ctx, service.BootstrapParams{
		Token:      req.Token,
		OfficeName: req.OfficeName,
		Email:      req.Email,
		Name:       req.Name,
		Password:   req.Password,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, membersdk.BootstrapResponse{
		UserID:      res.UserID,
		OfficeID:    res.OfficeID,
		TeamID:      res.TeamID,
		AccessToken: res.AccessToken,
	})
}
