package router

import (
	"fmt"
	"net/http"

	"github.com/dtroode/obituary-server/internal/api/http/handler"
	"github.com/dtroode/obituary-server/internal/api/http/middleware"
	"github.com/dtroode/obituary-server/internal/logger"
	"github.com/dtroode/obituary-server/internal/metrics"
	"github.com/dtroode/obituary-server/internal/model"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// formOverhead is the room left for text fields on top of the photo size limit.
const formOverhead = 64 << 10

// AuthService is the account service used by handlers and by the request gate.
type AuthService interface {
	handler.AuthService
	middleware.IdentityResolver
}

// Options holds HTTP surface settings.
type Options struct {
	CookieName     string
	CookieSecure   bool
	MaxUploadBytes int64
	// UploadsDir is served at /uploads.
	UploadsDir string
}

// Router builds the echo instance serving the JSON API, the site and the operations endpoints.
type Router struct {
	authService     AuthService
	obituaryService handler.ObituaryService
	contextManager  model.ContextManager
	renderer        echo.Renderer
	metrics         *metrics.Metrics
	healthChecks    map[string]handler.Pinger
	options         Options
	logger          *logger.Logger
}

// New creates a new Router instance.
func New(
	authService AuthService,
	obituaryService handler.ObituaryService,
	contextManager model.ContextManager,
	renderer echo.Renderer,
	metrics *metrics.Metrics,
	healthChecks map[string]handler.Pinger,
	options Options,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:     authService,
		obituaryService: obituaryService,
		contextManager:  contextManager,
		renderer:        renderer,
		metrics:         metrics,
		healthChecks:    healthChecks,
		options:         options,
		logger:          logger,
	}
}

// Register wires middleware and every route.
func (r *Router) Register() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = r.renderer

	e.Use(
		echomw.Recover(),
		middleware.NewLogging(r.logger).Handle(),
		middleware.Metrics(r.metrics),
	)

	health := handler.NewHealth(r.healthChecks, r.logger)
	e.GET("/health", health.Check)
	e.GET("/metrics", echo.WrapHandler(r.metrics.Handler()))
	if r.options.UploadsDir != "" {
		e.Static("/uploads", r.options.UploadsDir)
	}

	r.registerAPIRoutes(e)
	r.registerSiteRoutes(e)

	return e
}

func (r *Router) bodyLimit() echo.MiddlewareFunc {
	return echomw.BodyLimit(fmt.Sprintf("%dB", r.options.MaxUploadBytes+formOverhead))
}

func (r *Router) registerAPIRoutes(e *echo.Echo) {
	gate := middleware.NewGate(r.authService, r.contextManager, middleware.GateConfig{
		CookieName: r.options.CookieName,
		Deny:       middleware.DenyJSON,
	}, r.logger)
	token := gate.Require(middleware.TokenRequired)
	limit := r.bodyLimit()

	authHandler := handler.NewAuth(r.authService, r.contextManager, r.logger)
	obituaryHandler := handler.NewObituary(r.obituaryService, r.contextManager, r.options.MaxUploadBytes, r.logger)

	api := e.Group("/api")

	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/auth/me", authHandler.Me, token)

	api.GET("/obituaries", obituaryHandler.List)
	api.GET("/obituaries/:id", obituaryHandler.Get)
	api.POST("/obituaries", obituaryHandler.Create, limit, token)
	api.PUT("/obituaries/:id", obituaryHandler.Update, limit, token)
	api.DELETE("/obituaries/:id", obituaryHandler.Delete, token)
}

func (r *Router) registerSiteRoutes(e *echo.Echo) {
	gate := middleware.NewGate(r.authService, r.contextManager, middleware.GateConfig{
		CookieName:           r.options.CookieName,
		AttachCookieIdentity: true,
		Deny:                 middleware.DenyRedirect("/account/login"),
	}, r.logger)
	anonymous := gate.Require(middleware.Anonymous)
	cookie := gate.Require(middleware.CookieRequired)
	limit := r.bodyLimit()

	csrf := echomw.CSRFWithConfig(echomw.CSRFConfig{
		TokenLookup:    "form:_csrf",
		CookieName:     "_csrf",
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSecure:   r.options.CookieSecure,
		CookieSameSite: http.SameSiteLaxMode,
	})

	site := handler.NewSite(r.obituaryService, r.authService, r.contextManager, handler.SessionCookie{
		Name:   r.options.CookieName,
		Secure: r.options.CookieSecure,
	}, r.options.MaxUploadBytes, r.logger)

	e.GET("/", site.Home)

	e.GET("/obituaries", site.ListObituaries, csrf, anonymous)
	e.GET("/obituaries/new", site.NewObituary, csrf, anonymous)
	e.POST("/obituaries", site.CreateObituary, limit, csrf, anonymous)
	e.GET("/obituaries/:id", site.ShowObituary, csrf, anonymous)
	e.GET("/obituaries/:id/edit", site.EditObituary, csrf, cookie)
	e.POST("/obituaries/:id/edit", site.UpdateObituary, limit, csrf, cookie)
	e.GET("/obituaries/:id/delete", site.ConfirmDeleteObituary, csrf, cookie)
	e.POST("/obituaries/:id/delete", site.DeleteObituary, csrf, cookie)

	e.GET("/account/login", site.LoginForm, csrf, anonymous)
	e.POST("/account/login", site.Login, csrf, anonymous)
	e.POST("/account/logout", site.Logout, csrf, anonymous)
	e.GET("/account/register", site.RegisterForm, csrf, anonymous)
	e.POST("/account/register", site.Register, csrf, anonymous)
}
