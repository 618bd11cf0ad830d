package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/NguyenThanhNhut13/NguyenThanhNhut-PostManagementSystem/docs"
	"github.com/NguyenThanhNhut13/NguyenThanhNhut-PostManagementSystem/internal/api/handler"
	"github.com/NguyenThanhNhut13/NguyenThanhNhut-PostManagementSystem/internal/api/middleware"
	"github.com/NguyenThanhNhut13/NguyenThanhNhut-PostManagementSystem/internal/core/ports"
	"github.com/NguyenThanhNhut13/NguyenThanhNhut-PostManagementSystem/internal/core/service"
	mongodb "github.com/NguyenThanhNhut13/NguyenThanhNhut-PostManagementSystem/internal/infrastructure/db/mongo"
	redisdb "github.com/NguyenThanhNhut13/NguyenThanhNhut-PostManagementSystem/internal/infrastructure/db/redis"
	"github.com/NguyenThanhNhut13/NguyenThanhNhut-PostManagementSystem/internal/token"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// Authentication and authorization run as global middleware: the bearer
// middleware attaches an identity when a valid token is present, then the
// policy table decides whether the request may proceed at all.
func NewRouter(db *mongo.Database, rdb *redis.Client, codec *token.Codec, audit ports.AuditRecorder, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Repositories ---
	userRepo := mongodb.NewUserRepository(db)
	roleRepo := mongodb.NewRoleRepository(db)
	postRepo := mongodb.NewPostRepository(db)

	// --- Services ---
	throttle := redisdb.NewLoginLimiter(rdb)
	authService := service.NewAuthService(userRepo, roleRepo, codec, throttle, audit, log)
	userService := service.NewUserService(userRepo, postRepo, audit, log)
	postService := service.NewPostService(postRepo, userRepo, audit, log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	postHandler := handler.NewPostHandler(postService)
	healthHandler := handler.NewHealthHandler(db, rdb)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("postsvc"))
	e.Use(middleware.Authenticate(codec, userRepo))
	e.Use(middleware.Authorize(middleware.DefaultPolicy()))

	// --- Auth routes ---
	e.POST("/api/auth/register", authHandler.Register)
	e.POST("/api/auth/login", authHandler.Login)

	// --- Post routes ---
	e.POST("/api/posts", postHandler.Create)
	e.GET("/api/posts", postHandler.List)
	e.GET("/api/posts/:id", postHandler.Get)
	e.PUT("/api/posts/:id", postHandler.Update)
	e.DELETE("/api/posts/:id", postHandler.Delete)

	// --- User routes ---
	e.GET("/api/users", userHandler.List)
	e.GET("/api/users/me", userHandler.Me)
	e.GET("/api/users/:id", userHandler.Get)
	e.DELETE("/api/users/:id", userHandler.Delete)

	// --- Operational surfaces (no auth required) ---
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
