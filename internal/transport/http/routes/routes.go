package routes

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/codeclannigeria/codeclannigeria.dev/internal/core/domain"
	"github.com/codeclannigeria/codeclannigeria.dev/internal/infra/config"
	"github.com/codeclannigeria/codeclannigeria.dev/internal/infra/security"
	"github.com/codeclannigeria/codeclannigeria.dev/internal/transport/http/handlers"
	"github.com/codeclannigeria/codeclannigeria.dev/internal/transport/http/middleware"
	"github.com/codeclannigeria/codeclannigeria.dev/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Auth         *usecase.AuthService
	Registration *usecase.RegistrationService
	Accounts     *usecase.AccountService
	Users        *usecase.UserService
	Mentorships  *usecase.MentorshipService
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	TokenIssuer *security.TokenIssuer
	RateLimiter *middleware.RateLimiter
	HTTPMetrics *middleware.HTTPMetrics
	Services    ServiceSet
	Database    DatabaseChecker
	Cache       CacheChecker
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
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.Logger(deps.Logger))
	if deps.HTTPMetrics != nil {
		r.Use(deps.HTTPMetrics.Handler())
	}
	r.Use(middleware.CORS(deps.Config.App.AllowedOrigins))

	authMiddleware := middleware.RequireAuth(deps.TokenIssuer)

	checks := map[string]handlers.HealthCheck{}
	if deps.Database != nil {
		checks["postgres"] = deps.Database.Ping
	}
	if deps.Cache != nil {
		checks["redis"] = deps.Cache.HealthCheck
	}
	healthHandler := handlers.NewHealthHandler(checks, deps.Logger)

	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	{
		isDev := deps.Config.App.Env == "development"
		dispatcher := handlers.NewLoggingNotificationDispatcher(deps.Logger)

		authGroup := api.Group("/auth")
		authHandler := handlers.NewAuthHandler(
			deps.Services.Auth,
			deps.Services.Registration,
			deps.Services.Accounts,
			handlers.WithNotificationDispatcher(dispatcher),
			handlers.WithDevMode(isDev),
		)
		authHandler.RegisterRoutes(authGroup, buildLoginMiddlewares(deps), buildRegisterMiddlewares(deps))

		passwordGroup := api.Group("/password")
		passwordHandler := handlers.NewPasswordHandler(deps.Services.Accounts, dispatcher, isDev)
		passwordHandler.RegisterRoutes(passwordGroup, buildPasswordResetMiddlewares(deps)...)

		userGroup := api.Group("/users")
		userGroup.Use(authMiddleware)
		handlers.NewUserHandler(deps.Services.Users).RegisterRoutes(userGroup)

		mentorshipHandler := handlers.NewMentorshipHandler(deps.Services.Mentorships)

		mentorshipGroup := api.Group("/mentorships")
		mentorshipGroup.Use(authMiddleware)

		taskGroup := api.Group("/tasks")
		taskGroup.Use(authMiddleware)

		mentorshipHandler.RegisterRoutes(mentorshipGroup, taskGroup, middleware.RequireRoles(domain.RoleAdmin))
	}

	return r
}

func buildLoginMiddlewares(deps Dependencies) []gin.HandlerFunc {
	if deps.RateLimiter == nil || deps.Config == nil {
		return nil
	}

	limit := deps.Config.RateLimit.LoginMaxAttempts
	if limit <= 0 {
		return nil
	}

	window := deps.Config.RateLimit.WindowDuration
	if window <= 0 {
		window = time.Minute
	}

	rule := middleware.RateLimitRule{
		Name:       "auth_login_ip",
		Limit:      limit,
		Window:     window,
		Identifier: middleware.ClientIPIdentifier(),
	}

	return []gin.HandlerFunc{deps.RateLimiter.RateLimit(rule)}
}

func buildRegisterMiddlewares(deps Dependencies) []gin.HandlerFunc {
	if deps.RateLimiter == nil || deps.Config == nil {
		return nil
	}

	limit := deps.Config.RateLimit.RegisterMaxAttempts
	if limit <= 0 {
		return nil
	}

	window := deps.Config.RateLimit.WindowDuration
	if window <= 0 {
		window = time.Minute
	}

	rule := middleware.RateLimitRule{
		Name:       "auth_register_ip",
		Limit:      limit,
		Window:     window,
		Identifier: middleware.ClientIPIdentifier(),
	}

	return []gin.HandlerFunc{deps.RateLimiter.RateLimit(rule)}
}

func buildPasswordResetMiddlewares(deps Dependencies) []gin.HandlerFunc {
	if deps.RateLimiter == nil || deps.Config == nil {
		return nil
	}

	limit := deps.Config.RateLimit.PasswordResetMaxAttempts
	if limit <= 0 {
		return nil
	}

	window := deps.Config.RateLimit.WindowDuration
	if window <= 0 {
		window = time.Hour
	}

	rule := middleware.RateLimitRule{
		Name:       "password_reset_ip",
		Limit:      limit,
		Window:     window,
		Identifier: middleware.ClientIPIdentifier(),
	}

	return []gin.HandlerFunc{deps.RateLimiter.RateLimit(rule)}
}
