package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/keystackhq/keystack/internal/members/domain"
	"github.com/keystackhq/keystack/internal/members/identity"
	"github.com/keystackhq/keystack/internal/members/service"
	"github.com/keystackhq/keystack/internal/members/store"
	"github.com/keystackhq/keystack/pkg/httpx"
	"github.com/keystackhq/keystack/pkg/jwtx"
	"github.com/keystackhq/keystack/pkg/slogx"

	_ "github.com/keystackhq/keystack/api/members" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store    store.Store
	identity identity.Store

	InviteService    *service.InviteService
	ProvisionService *service.ProvisionService
	ReconcileService *service.ReconcileService
	BootstrapService *service.BootstrapService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	ident identity.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		identity:     ident,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerInvitations()
	r.registerAdmin()
	r.registerBootstrap()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Keystack Members Service API
//	@version		0.1.0
//	@description	Invitation-based member provisioning: invitations, account creation, team
//	@description	membership and role grants, plus the reconciliation endpoints for repairing
//	@description	accounts that were only partially provisioned.
//
//	@contact.name				Keystack Team
//	@contact.url				https://github.com/keystackhq/keystack
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerInvitations() {
	createHandler := &InviteCreateHandler{InviteService: r.InviteService}
	acceptHandler := &InviteAcceptHandler{ProvisionService: r.ProvisionService}
	resendHandler := &InviteResendHandler{InviteService: r.InviteService}
	revokeHandler := &InviteRevokeHandler{InviteService: r.InviteService}

	// POST /invitations - strict rate limit per actor (invitation issuing)
	r.Mux.Handle("POST /v1/invitations",
		httpx.Chain(createHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.StrictLimit),
		),
	)

	// POST /invitations/accept - public signup endpoint, strict limit by IP
	r.Mux.Handle("POST /v1/invitations/accept",
		httpx.Chain(acceptHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("POST /v1/invitations/{id}/resend",
		httpx.Chain(resendHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /v1/invitations/{id}/revoke",
		httpx.Chain(revokeHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerAdmin() {
	repairHandler := &RepairUserHandler{ReconcileService: r.ReconcileService}
	mergeHandler := &MergeUsersHandler{ReconcileService: r.ReconcileService}
	crossOfficeHandler := &FixCrossOfficeHandler{ReconcileService: r.ReconcileService}

	// Repair is available to office managers and up.
	r.Mux.Handle("POST /v1/admin/users/{id}/repair",
		httpx.Chain(repairHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyRole(
				string(domain.RolePlatformAdmin),
				string(domain.RoleOfficeManager),
			),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// Merge and cross-office repair are platform admin only.
	r.Mux.Handle("POST /v1/admin/users/merge",
		httpx.Chain(mergeHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyRole(string(domain.RolePlatformAdmin)),
			httpx.RateLimitByUser(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/admin/cross-office/fix",
		httpx.Chain(crossOfficeHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyRole(string(domain.RolePlatformAdmin)),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerBootstrap() {
	// POST /bootstrap - very strict rate limit by IP (one-time setup endpoint)
	bootstrapHandler := &BootstrapHandler{BootstrapService: r.BootstrapService}
	r.Mux.Handle("POST /v1/bootstrap",
		httpx.Chain(bootstrapHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.identity),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
