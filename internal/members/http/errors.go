package http

import (
	"errors"
	"net/http"

	"github.com/keystackhq/keystack/internal/members/domain"
	"github.com/keystackhq/keystack/internal/members/service"
	"github.com/keystackhq/keystack/pkg/httpx"
	"github.com/keystackhq/keystack/pkg/membersdk"
	"github.com/keystackhq/keystack/pkg/slogx"
)

// writeServiceError maps service errors to the uniform wire shape. Every
// handler funnels its error path through here so machine codes stay
// consistent across endpoints.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var incomplete *service.IncompleteProfileError
	if errors.As(err, &incomplete) {
		httpx.WriteJSON(w, http.StatusInternalServerError, membersdk.ErrorResponse{
			Error:            "profile_incomplete",
			ErrorDescription: "The account was created but failed consistency verification; repair is required",
			UserID:           incomplete.UserID,
		})
		return
	}

	var tae *service.TeamAssignmentError
	if errors.As(err, &tae) {
		httpx.WriteJSON(w, http.StatusInternalServerError, membersdk.ErrorResponse{
			Error:            "team_assignment_failed",
			ErrorDescription: "Failed to assign the user to the requested team",
			UserID:           tae.UserID,
			TeamName:         tae.TeamName,
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrInvalidRole):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, service.ErrRoleNotPermitted):
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, service.ErrAlreadyInvited):
		writeError(w, http.StatusConflict, "already_invited", err.Error())
	case errors.Is(err, service.ErrUserExists):
		writeError(w, http.StatusConflict, "user_exists", err.Error())
	case errors.Is(err, service.ErrUserInactive):
		writeError(w, http.StatusConflict, "user_inactive", err.Error())
	case errors.Is(err, service.ErrInvalidTeam):
		writeError(w, http.StatusBadRequest, "invalid_team", err.Error())
	case errors.Is(err, service.ErrInvalidToken):
		writeError(w, http.StatusBadRequest, "invalid_token", err.Error())
	case errors.Is(err, service.ErrInvitationUsed):
		writeError(w, http.StatusConflict, "already_used", err.Error())
	case errors.Is(err, service.ErrInvitationRevoked),
		errors.Is(err, service.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, "invalid_status", err.Error())
	case errors.Is(err, service.ErrInvitationExpired):
		writeError(w, http.StatusBadRequest, "expired", err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, service.ErrLastPlatformAdmin):
		writeError(w, http.StatusConflict, "last_platform_admin", err.Error())
	case errors.Is(err, service.ErrAlreadyBootstrapped):
		writeError(w, http.StatusConflict, "already_bootstrapped", err.Error())
	case errors.Is(err, service.ErrBootstrapUnavailable):
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	default:
		slogx.FromContext(r.Context()).Error("request failed", "path", r.URL.Path, "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "Internal error")
	}
}

func writeError(w http.ResponseWriter, status int, code, description string) {
	httpx.WriteJSON(w, status, membersdk.ErrorResponse{
		Error:            code,
		ErrorDescription: description,
	})
}

// actorFromContext rebuilds the authenticated caller from the values the
// authn middleware injected.
func actorFromContext(r *http.Request) (service.Actor, bool) {
	userID := httpx.UserIDFromContext(r.Context())
	role := httpx.RoleFromContext(r.Context())
	if userID == "" || role == "" {
		return service.Actor{}, false
	}
	return service.Actor{ID: userID, Role: domain.Role(role)}, true
}
