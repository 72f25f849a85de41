package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/citylink/admin-gateway/docs"
	"github.com/citylink/admin-gateway/internal/api/handler"
	"github.com/citylink/admin-gateway/internal/api/middleware"
	"github.com/citylink/admin-gateway/internal/api/proxy"
	"github.com/citylink/admin-gateway/internal/api/routes"
	"github.com/citylink/admin-gateway/internal/core/ports"
	"github.com/citylink/admin-gateway/internal/infrastructure/http/handlers"
	"github.com/citylink/admin-gateway/internal/pkg/config"
)

// Upstream is the backend client: proxied calls plus a reachability probe.
type Upstream interface {
	ports.Upstream
	handlers.Pinger
}

// Deps are the collaborators the router wires together.
type Deps struct {
	Config   *config.Config
	Log      zerolog.Logger
	Sessions ports.SessionService
	Upstream Upstream
	// Redis is nil when revocation is disabled.
	Redis redis.Cmdable
	// Routes defaults to routes.All().
	Routes []proxy.Route
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	cfg := d.Config
	debug := cfg.IsDevelopment()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(middleware.LoadSession(d.Sessions, cfg.Session.CookieName, d.Log))

	// --- Operational endpoints ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Upstream, d.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Session gate ---
	sessionHandler := handler.NewSessionHandler(d.Sessions, handler.CookieConfig{
		Name:   cfg.Session.CookieName,
		Secure: !debug,
	}, d.Log, debug)

	e.POST("/api/auth/session", sessionHandler.Issue)
	e.GET("/api/auth/session", sessionHandler.Current)
	e.DELETE("/api/auth/session", sessionHandler.SignOut)

	// --- Proxied resources ---
	table := d.Routes
	if table == nil {
		table = routes.All()
	}
	proxy.NewHandler(d.Upstream, d.Log, debug).Register(e, table)

	return e
}
