package http

import (
	"encoding/json"
	"net/http"

	"github.com/keystackhq/keystack/internal/members/service"
	"github.com/keystackhq/keystack/pkg/httpx"
	"github.com/keystackhq/keystack/pkg/membersdk"
)

type FixCrossOfficeHandler struct {
	ReconcileService *service.ReconcileService
}

// ServeHTTP godoc
//
//	@Summary		Fix Cross-Office Memberships
//	@Description	Find memberships whose team belongs to a different office than the member and resolve
//	@Description	each with the chosen strategy: move_user, remove_membership or duplicate_team.
//	@Description	Items are repaired independently; one failure never aborts the rest.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			request	body		membersdk.FixCrossOfficeRequest		true	"Fix request"
//	@Success		200		{object}	membersdk.FixCrossOfficeResponse	"scanned, fixed, details"
//	@Failure		400		{object}	membersdk.ErrorResponse				"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/admin/cross-office/fix [post].
func (h *FixCrossOfficeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := actorFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	var req membersdk.FixCrossOfficeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	strategy, err := service.ParseCrossOfficeStrategy(req.Strategy)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	report, err := h.ReconcileService.FixCrossOffice(ctx, actor.ID, strategy, req.UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := membersdk.FixCrossOfficeResponse{
		Scanned: report.Scanned,
		Fixed:   report.Fixed,
		Details: make([]membersdk.CrossOfficeDetail, 0, len(report.Items)),
	}
	for _, item := range report.Items {
		resp.Details = append(resp.Details, membersdk.CrossOfficeDetail{
			UserID: item.UserID,
			TeamID: item.TeamID,
			Action: item.Action,
			Error:  item.Error,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}
