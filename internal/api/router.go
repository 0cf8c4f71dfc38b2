package api

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/platformid/identity-system/docs"
	"github.com/platformid/identity-system/internal/api/handler"
	"github.com/platformid/identity-system/internal/api/middleware"
	"github.com/platformid/identity-system/internal/core/domain"
	"github.com/platformid/identity-system/internal/core/service"
	"github.com/platformid/identity-system/internal/infrastructure/config"
	"github.com/platformid/identity-system/internal/infrastructure/db/postgres"
	redisdb "github.com/platformid/identity-system/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(pool *pgxpool.Pool, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("identity"))

	// --- Dependencies ---
	userRepo := postgres.NewUserRepository(pool)
	tokens := service.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)
	authService := service.NewAuthService(userRepo, tokens, cfg.BcryptCost, log)
	userService := service.NewUserService(userRepo, cfg.BcryptCost, log)
	limiter := redisdb.NewRequestLimiter(rdb, redisdb.LimiterConfig{
		Window:     cfg.RateLimit.Window,
		AdminLimit: cfg.RateLimit.AdminLimit,
		UserLimit:  cfg.RateLimit.UserLimit,
		GuestLimit: cfg.RateLimit.GuestLimit,
	})

	authHandler := handler.NewAuthHandler(authService, cfg.JWTTTL, !cfg.IsDevelopment())
	userHandler := handler.NewUserHandler(userService)

	mwAuth := middleware.Auth(tokens)
	mwProtect := middleware.Protect(limiter, log)

	// --- Auth routes (guest rate bucket) ---
	auth := e.Group("/auth", mwProtect)
	auth.POST("/signup", authHandler.SignUp)
	auth.POST("/signin", authHandler.SignIn)
	auth.POST("/signout", authHandler.SignOut)

	// --- User routes (authenticated; per-role rate bucket) ---
	users := e.Group("/users", mwAuth, mwProtect)
	users.GET("", userHandler.List, middleware.RequireRole(domain.RoleAdmin))
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)

	// --- Health probes (no auth, no rate limit) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(pool, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability / docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
