package http

import (
	"encoding/json"
	"net/http"

	"github.com/keystackhq/keystack/internal/members/service"
	"github.com/keystackhq/keystack/pkg/httpx"
	"github.com/keystackhq/keystack/pkg/membersdk"
)

type InviteAcceptHandler struct {
	ProvisionService *service.ProvisionService
}

// ServeHTTP godoc
//
//	@Summary		Accept Invitation
//	@Description	Redeem an invitation token and provision the account: credential, profile, team
//	@Description	membership and role grant. Retrying with the same token resumes a partial run.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		membersdk.AcceptRequest		true	"Accept request"
//	@Success		200		{object}	membersdk.AcceptResponse	"user_id, office_id, team_id, warnings"
//	@Failure		400		{object}	membersdk.ErrorResponse		"error, error_description"
//	@Failure		409		{object}	membersdk.ErrorResponse		"error, error_description"
//	@Failure		500		{object}	membersdk.ErrorResponse		"error, error_description, user_id"
//	@Router			/v1/invitations/accept [post].
func (h *InviteAcceptHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req membersdk.AcceptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if req.Token == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "token is required")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}

	res, err := h.ProvisionService.Accept(ctx, service.AcceptParams{
		Token:    req.Token,
		Name:     req.Name,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := membersdk.AcceptResponse{
		UserID:   res.UserID,
		OfficeID: res.OfficeID,
		TeamID:   res.TeamID,
		Role:     string(res.Role),
		Resumed:  res.Resumed,
	}
	for _, warn := range res.Warnings {
		resp.Warnings = append(resp.Warnings, membersdk.AcceptWarning{
			Code:     warn.Code,
			TeamName: warn.TeamName,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}
