package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/userhub/account-service/internal/api/handler"
	"github.com/userhub/account-service/internal/api/middleware"
	"github.com/userhub/account-service/internal/core/service"
	"github.com/userhub/account-service/internal/infrastructure/config"
	mongodb "github.com/userhub/account-service/internal/infrastructure/db/mongo"
	redisdb "github.com/userhub/account-service/internal/infrastructure/db/redis"
	"github.com/userhub/account-service/internal/infrastructure/http/handlers"
	"github.com/userhub/account-service/internal/pkg/hasher"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("account"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	sessionStore := redisdb.NewSessionStore(rdb)
	tokenService := service.NewTokenService(sessionStore, userRepo, cfg.JWTSecret, cfg.SessionTTL)
	accountService := service.NewAccountService(userRepo, hasher.NewBcrypt(0), tokenService, log)

	authHandler := handler.NewAuthHandler(accountService)
	userHandler := handler.NewUserHandler(accountService)
	authMiddleware := middleware.Auth(tokenService)

	// --- Pre-authentication routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Authenticated routes ---
	// Admin gating happens in the service's authorization policy, not in
	// route middleware, so every authenticated route gets the same chain.
	e.POST("/auth/logout", authHandler.Logout, authMiddleware)
	e.GET("/user", authHandler.Me, authMiddleware)

	e.GET("/users", userHandler.List, authMiddleware)
	e.POST("/users", userHandler.Create, authMiddleware)
	e.GET("/users/:id", userHandler.Get, authMiddleware)
	e.PUT("/users/:id", userHandler.Update, authMiddleware)
	e.DELETE("/users/:id", userHandler.Delete, authMiddleware)
	e.PATCH("/users/:id/role", userHandler.UpdateRole, authMiddleware)

	// --- Observability (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
