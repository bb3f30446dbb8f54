package http

import (
	"net/http"
	"time"

	"github.com/keystackhq/keystack/internal/members/identity"
	"github.com/keystackhq/keystack/internal/members/store"
	"github.com/keystackhq/keystack/pkg/httpx"
	"github.com/keystackhq/keystack/pkg/membersdk"
)

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe checking both datastores: the relational records and the
//	@Description	credential store. Either failing marks the service degraded.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	membersdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	membersdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(
	startTime time.Time,
	version string,
	st store.Store,
	ident identity.Store,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &membersdk.HealthChecks{
			Database: "ok",
			Identity: "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}
		if err := ident.Ping(r.Context()); err != nil {
			checks.Identity = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, statusCode, membersdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
