package routes

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/neo-rgalvez/taskflow/internal/core/port"
	"github.com/neo-rgalvez/taskflow/internal/infra/config"
	"github.com/neo-rgalvez/taskflow/internal/transport/http/cookie"
	"github.com/neo-rgalvez/taskflow/internal/transport/http/handlers"
	"github.com/neo-rgalvez/taskflow/internal/transport/http/middleware"
	"github.com/neo-rgalvez/taskflow/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Auth         *usecase.AuthService
	Registration *usecase.RegistrationService
	Sessions     *usecase.SessionService
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	RateLimiter *middleware.RateLimiter
	Services    ServiceSet
	Cookies     *cookie.Codec
	Workspace   port.WorkspaceReader
	Database    DatabaseChecker
	Cache       CacheChecker
	Metrics     *middleware.HTTPMetrics
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker exposes readiness behaviour for cache backends.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// gin trusts every proxy out of the box, which would let a client
	// rewrite its rate-limit identity (and session IP records) through
	// X-Forwarded-For. Trust none; app wiring widens this when a reverse
	// proxy is configured.
	_ = r.SetTrustedProxies(nil)

	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))

	if len(deps.Config.App.CORSOrigins) > 0 {
		r.Use(middleware.CORS(deps.Config.App.CORSOrigins))
	}

	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}

	healthOptions := make([]handlers.HealthOption, 0, 2)
	if deps.Database != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("database", deps.Database.Ping))
	}
	if deps.Cache != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("redis", deps.Cache.HealthCheck))
	}
	healthHandler := handlers.NewHealthHandler(healthOptions...)

	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authHandler := handlers.NewAuthHandler(deps.Services.Registration, deps.Services.Auth, deps.Cookies, deps.Logger)
	requireAuth := middleware.RequireAuth(deps.Services.Auth, deps.Cookies)

	api := r.Group("/api")
	{
		signupHandlers := appendRule(deps, "signup", deps.Config.RateLimit.SignupMaxAttempts)
		api.POST("/signup", append(signupHandlers, authHandler.Signup)...)

		loginHandlers := appendRule(deps, "login", deps.Config.RateLimit.LoginMaxAttempts)
		api.POST("/login", append(loginHandlers, authHandler.Login)...)

		api.POST("/logout", authHandler.Logout)
		api.GET("/session", authHandler.Session)

		if deps.Workspace != nil {
			workspaceHandler := handlers.NewWorkspaceHandler(deps.Workspace, deps.Logger)
			api.GET("/workspace", requireAuth, workspaceHandler.Summary)
		}
	}

	// Page paths are not registered routes here; the perimeter guard runs
	// on the NoRoute chain and redirects before the fallthrough 404.
	if deps.Cookies != nil {
		classifier := middleware.NewClassifier(deps.Config.Perimeter)
		r.NoRoute(middleware.PerimeterGuard(
			classifier,
			deps.Cookies,
			deps.Config.Perimeter.LoginPath,
			deps.Config.Perimeter.AppHome,
		))
	}

	return r
}

func appendRule(deps Dependencies, name string, limit int) []gin.HandlerFunc {
	if deps.RateLimiter == nil || limit <= 0 {
		return nil
	}

	rule := middleware.RateLimitRule{
		Name:       name,
		Limit:      int64(limit),
		Window:     deps.Config.RateLimit.WindowDuration,
		Identifier: middleware.ClientIPIdentifier(),
	}

	return []gin.HandlerFunc{deps.RateLimiter.RateLimit(rule)}
}
