package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/venuetrack/checkin-system/internal/api/handler"
	"github.com/venuetrack/checkin-system/internal/api/middleware"
	"github.com/venuetrack/checkin-system/internal/core/domain"
	"github.com/venuetrack/checkin-system/internal/core/ports"
)

// Services bundles the core services the router exposes over HTTP.
type Services struct {
	Auth    ports.AuthService
	Clients ports.ClientService
	Users   ports.UserService
	Checkin ports.CheckinService
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(svc Services, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("checkin"))

	authHandler := handler.NewAuthHandler(svc.Auth)
	clientHandler := handler.NewClientHandler(svc.Clients, svc.Checkin)
	userHandler := handler.NewUserHandler(svc.Users)

	authRequired := middleware.Auth(svc.Auth)
	manageOnly := middleware.RBAC(domain.RoleAdmin, domain.RoleManager)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Client routes ---
	clients := e.Group("/clients", authRequired)
	clients.GET("", clientHandler.GetAll)
	clients.POST("", clientHandler.Create, manageOnly)
	clients.POST("/check-in", clientHandler.CheckIn)
	clients.GET("/:id", clientHandler.Get)
	clients.PUT("/:id", clientHandler.Update, manageOnly)
	clients.DELETE("/:id", clientHandler.Delete, manageOnly)

	// --- User routes ---
	users := e.Group("/users", authRequired)
	users.POST("", userHandler.Create)
	users.POST("/fetchByIds", userHandler.FetchByIDs)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)

	// --- Observability (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
