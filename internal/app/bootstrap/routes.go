// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/teamnotes/internal/app/core/activity"
	corenotes "github.com/dalemusser/teamnotes/internal/app/core/notes"
	"github.com/dalemusser/teamnotes/internal/app/core/registry"
	authfeature "github.com/dalemusser/teamnotes/internal/app/features/auth"
	healthfeature "github.com/dalemusser/teamnotes/internal/app/features/health"
	notesfeature "github.com/dalemusser/teamnotes/internal/app/features/notes"
	workspacesfeature "github.com/dalemusser/teamnotes/internal/app/features/workspaces"
	activitystore "github.com/dalemusser/teamnotes/internal/app/store/activities"
	notestore "github.com/dalemusser/teamnotes/internal/app/store/notes"
	userstore "github.com/dalemusser/teamnotes/internal/app/store/users"
	workspacestore "github.com/dalemusser/teamnotes/internal/app/store/workspaces"
	systemauth "github.com/dalemusser/teamnotes/internal/app/system/auth"
	"github.com/dalemusser/teamnotes/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// TeamNotes layers stores over the Mongo database, core services over the
// stores, and JSON feature handlers over the services, then mounts the
// feature routers under /api. Bearer token middleware runs globally so the
// current user is available to all handlers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	tokens, err := systemauth.NewTokenManager(appCfg.JWTSecret, appCfg.JWTExpiry, logger)
	if err != nil {
		logger.Error("token manager init failed", zap.Error(err))
		return nil, err
	}

	// Stores
	db := deps.MongoDatabase
	users := userstore.New(db)
	workspaces := workspacestore.New(db)
	notes := notestore.New(db)
	activities := activitystore.New(db)

	// Core services
	activityLog := activity.NewLog(activities, logger)
	reg := registry.New(workspaces, activityLog, logger)
	noteSvc := corenotes.NewService(notes, reg, activityLog, logger)

	r := chi.NewRouter()

	// Global auth middleware: loads the token user into context when a
	// valid bearer token is present. Individual routers decide whether
	// sign-in is required.
	r.Use(tokens.LoadTokenUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// API surface
	loginLimits := ratelimit.NewCredentialLimiter()
	authHandler := authfeature.NewHandler(users, tokens, loginLimits, logger)
	r.Mount("/api/auth", authfeature.Routes(authHandler, tokens))

	workspacesHandler := workspacesfeature.NewHandler(reg, activityLog, logger)
	r.Mount("/api/workspaces", workspacesfeature.Routes(workspacesHandler, tokens))

	notesHandler := notesfeature.NewHandler(noteSvc, logger)
	r.Mount("/api/notes", notesfeature.Routes(notesHandler, tokens))

	return r, nil
}
