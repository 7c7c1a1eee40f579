package router

import (
	"github.com/anonto42/nano-feed/backend/internal/handlers"
	"github.com/anonto42/nano-feed/backend/internal/middleware"
	"github.com/anonto42/nano-feed/backend/internal/services"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dependencies are the collaborators the routes are built from
type Dependencies struct {
	DB              *gorm.DB
	Services        *services.Services
	JWTSecret       string
	FirebaseAuth    handlers.TokenVerifier // nil disables firebase login
	DefaultPageSize int
	Logger          *zap.Logger
}

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo, log *zap.Logger) {
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
}

// SetupRoutes configures all application routes
func SetupRoutes(e *echo.Echo, deps Dependencies) {
	svc := deps.Services

	e.GET("/health", handlers.NewHealthHandler(deps.DB).HealthCheck)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	handlers.NewAuthHandler(svc.Auth, deps.FirebaseAuth, deps.JWTSecret, deps.Logger.Named("auth")).RegisterAuthRoutes(authGroup)

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(deps.JWTSecret))

	handlers.NewUserHandler(svc, deps.DefaultPageSize).RegisterProfileRoutes(api)
	handlers.NewFollowHandler(svc.Follows).RegisterFollowRoutes(api)
	handlers.NewTweetHandler(svc.Content, svc.Identity).RegisterTweetRoutes(api)
	handlers.NewLikeHandler(svc.Content).RegisterLikeRoutes(api)
	handlers.NewCommentHandler(svc.Content, svc.Identity).RegisterCommentRoutes(api)
	handlers.NewFeedHandler(svc.Feed, svc.Identity, deps.DefaultPageSize).RegisterFeedRoutes(api)
	handlers.NewNotificationHandler(svc.Notifications, svc.Identity).RegisterNotificationRoutes(api)

	deps.Logger.Info("routes configured", zap.Bool("firebase_login", deps.FirebaseAuth != nil))
}
