package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/keystackhq/keystack/internal/members/http"
	"github.com/keystackhq/keystack/internal/members/identity"
	identsqlite "github.com/keystackhq/keystack/internal/members/identity/sqlite"
	"github.com/keystackhq/keystack/internal/members/service"
	"github.com/keystackhq/keystack/internal/members/store"
	"github.com/keystackhq/keystack/internal/members/store/drivers/sqlite"
	"github.com/keystackhq/keystack/pkg/jwtx"
	"github.com/keystackhq/keystack/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the members service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies. Two separate stores on purpose: no transaction
	// spans credentials and the relational records.
	db    store.Store
	ident identity.Store

	signer   *jwtx.Signer
	verifier jwtx.Verifier

	auditService        *service.AuditService
	inviteService       *service.InviteService
	membershipService   *service.MembershipService
	roleService         *service.RoleService
	verifyService       *service.VerifyService
	provisionService    *service.ProvisionService
	reconcileService    *service.ReconcileService
	bootstrapService    *service.BootstrapService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "members-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initStores(); err != nil {
		return nil, err
	}

	pub, priv, err := jwtx.LoadOrCreateKey(cfg.JWTKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT key: %w", err)
	}
	app.signer = jwtx.NewSigner(priv, cfg.Issuer, cfg.AccessTokenTTL)
	app.verifier = jwtx.NewVerifier(pub, cfg.Issuer)

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	ctx := slogx.WithContext(context.Background(), app.logger)
	app.housekeepingService.Start(ctx)

	app.logger.Info("members service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down members service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.ident.Close(); err != nil {
		app.logger.Error("error closing identity store", "error", err)
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("members service stopped")
	return nil
}

// initStores opens both databases and applies migrations to the relational one.
func (app *Application) initStores() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}
	app.logger.Info("database migrations applied successfully")

	identHost := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.IdentityDatabaseFile)
	ident, err := identsqlite.NewStore(identHost)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize identity store: %w", err)
	}
	app.ident = ident

	return nil
}

// initServices initializes all business logic services.
func (app *Application) initServices() {
	app.auditService = &service.AuditService{Store: app.db}

	app.inviteService = &service.InviteService{
		Store:    app.db,
		Audit:    app.auditService,
		Notifier: service.LogNotifier{},
		TTL:      app.cfg.InvitationTTL,
	}
	app.membershipService = &service.MembershipService{
		Store: app.db,
		Audit: app.auditService,
	}
	app.roleService = &service.RoleService{
		Store: app.db,
		Audit: app.auditService,
	}
	app.verifyService = &service.VerifyService{
		Store: app.db,
		Audit: app.auditService,
	}
	app.provisionService = &service.ProvisionService{
		Store:       app.db,
		Identity:    app.ident,
		Audit:       app.auditService,
		Invites:     app.inviteService,
		Memberships: app.membershipService,
		Roles:       app.roleService,
		Verifier:    app.verifyService,
	}
	app.reconcileService = &service.ReconcileService{
		Store:       app.db,
		Identity:    app.ident,
		Audit:       app.auditService,
		Roles:       app.roleService,
		Memberships: app.membershipService,
	}
	app.bootstrapService = &service.BootstrapService{
		Store:       app.db,
		Identity:    app.ident,
		Audit:       app.auditService,
		Memberships: app.membershipService,
		Roles:       app.roleService,
		Signer:      app.signer,
		Token:       app.cfg.BootstrapToken,
	}
	app.housekeepingService = &service.HousekeepingService{
		Invites:   app.inviteService,
		Reconcile: app.reconcileService,
		Interval:  app.cfg.HousekeepingInterval,
	}
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.verifier,
		BuildVersion,
		app.db,
		app.ident,
		app.logger,
	)

	router.InviteService = app.inviteService
	router.ProvisionService = app.provisionService
	router.ReconcileService = app.reconcileService
	router.BootstrapService = app.bootstrapService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
