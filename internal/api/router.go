package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/actowiz/text-submission-api/internal/api/handler"
	"github.com/actowiz/text-submission-api/internal/api/middleware"
	"github.com/actowiz/text-submission-api/internal/core/domain"
	"github.com/actowiz/text-submission-api/internal/core/ports"
)

// Dependencies are the collaborators the router wires into handlers. Users
// resolves token subjects to stored accounts on every authenticated request.
type Dependencies struct {
	AuthService       ports.AuthService
	UserService       ports.UserService
	SubmissionService ports.SubmissionService
	Users             middleware.UserFinder
	Listeners         handler.ListenerRegistry
	ReadinessChecks   map[string]handler.DependencyCheck
	JWTSecret         string
	AllowedOrigins    []string
	Logger            zerolog.Logger
	// MetricsRegisterer receives the HTTP request metrics. Nil means the
	// Prometheus default registerer.
	MetricsRegisterer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: deps.AllowedOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "textsubmission",
		Registerer: deps.MetricsRegisterer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || c.Path() == "/ws"
		},
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	submissionHandler := handler.NewSubmissionHandler(deps.SubmissionService)
	userHandler := handler.NewUserHandler(deps.UserService)
	wsHandler := handler.NewWebSocketHandler(deps.Listeners, deps.Logger)
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.ReadinessChecks)

	authMiddleware := middleware.Auth(deps.JWTSecret, deps.Users, false)

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// --- Text submissions (any authenticated role) ---
	text := e.Group("/api/text", authMiddleware, middleware.RBAC(domain.AllRoles()...))
	text.POST("/submit", submissionHandler.Submit)
	text.GET("/submissions", submissionHandler.List)

	// --- User administration (admin only) ---
	users := e.Group("/api/users", authMiddleware, middleware.RBAC(domain.RoleAdmin))
	users.GET("", userHandler.List)
	users.GET("/statistics", userHandler.Statistics)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id/role", userHandler.UpdateRole)
	users.DELETE("/:id", userHandler.Delete)

	// --- Real-time feed ---
	e.GET("/ws", wsHandler.Connect, middleware.Auth(deps.JWTSecret, deps.Users, true))

	// --- Health probes (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil {
				evt = log.Warn().Err(v.Error)
			}
			evt.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
