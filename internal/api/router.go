package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/adminhub/user-management/internal/api/handler"
	"github.com/adminhub/user-management/internal/api/middleware"
	"github.com/adminhub/user-management/internal/core/ports"
	"github.com/adminhub/user-management/internal/core/service"
	"github.com/adminhub/user-management/internal/infrastructure/config"
	mongodb "github.com/adminhub/user-management/internal/infrastructure/db/mongo"
	redisdb "github.com/adminhub/user-management/internal/infrastructure/db/redis"
	"github.com/adminhub/user-management/internal/web"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// rdb may be nil; the user cache is then disabled.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	renderer, err := web.NewRenderer()
	if err != nil {
		return nil, err
	}
	e.Renderer = renderer

	secure := cfg.IsProduction()

	// HTML forms carry PUT/DELETE through the _method field.
	e.Pre(echomiddleware.MethodOverrideWithConfig(echomiddleware.MethodOverrideConfig{
		Getter: echomiddleware.MethodFromForm("_method"),
	}))

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("usermgmt"))
	e.Use(middleware.CSRF(secure))
	e.Use(middleware.VerifyCSRF())

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)

	var cache ports.UserCache
	if rdb != nil {
		cache = redisdb.NewUserCache(rdb)
	}

	tokenService := service.NewTokenService(cfg.JWTSecret, cfg.RefreshSecret)
	authService := service.NewAuthService(userRepo, tokenService, cache, log)
	userService := service.NewUserService(userRepo, cache, cfg.BcryptCost, log)

	authHandler := handler.NewAuthHandler(authService, secure)
	userHandler := handler.NewUserHandler(userService)
	webAuthHandler := handler.NewWebAuthHandler(authService, secure)
	webUserHandler := handler.NewWebUserHandler(userService)

	protect := middleware.Session(authService, secure)
	requireAdmin := middleware.RequireAdmin()

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandler())

	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- JSON API ---
	apiAuth := e.Group("/api/auth")
	apiAuth.POST("/login", authHandler.Login)
	apiAuth.GET("/refresh", authHandler.Refresh)
	apiAuth.GET("/logout", authHandler.Logout, protect)

	apiUsers := e.Group("/api/users")
	apiUsers.GET("/me", userHandler.Me, protect)

	apiAdmin := e.Group("/api/users", protect, requireAdmin)
	apiAdmin.GET("", userHandler.List)
	apiAdmin.POST("", userHandler.Create)
	apiAdmin.GET("/:id", userHandler.Get)
	apiAdmin.PUT("/:id", userHandler.Update)
	apiAdmin.DELETE("/:id", userHandler.Delete)

	// --- Web ---
	e.Static("/static", "public")

	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/users")
	})
	e.GET("/login", webAuthHandler.LoginPage)
	e.POST("/login", webAuthHandler.Login)
	e.GET("/logout", webAuthHandler.Logout, protect)
	e.GET("/profile", webUserHandler.Profile, protect)

	webUsers := e.Group("/users", protect, requireAdmin)
	webUsers.GET("", webUserHandler.List)
	webUsers.GET("/create", webUserHandler.CreatePage)
	webUsers.POST("", webUserHandler.Create)
	webUsers.GET("/:id", webUserHandler.Show)
	webUsers.GET("/:id/edit", webUserHandler.EditPage)
	webUsers.PUT("/:id", webUserHandler.Update)
	webUsers.DELETE("/:id", webUserHandler.Delete)

	return e, nil
}
