package api

import (
	"context"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/entregadores67/dispatch/internal/api/handler"
	"github.com/entregadores67/dispatch/internal/api/middleware"
	"github.com/entregadores67/dispatch/internal/core/domain"
	"github.com/entregadores67/dispatch/internal/core/ports"

	_ "github.com/entregadores67/dispatch/docs"
)

// Dependencies is everything the HTTP layer needs from the composition root.
type Dependencies struct {
	Orders         ports.OrderService
	Couriers       ports.CourierService
	ExternalOrders ports.ExternalOrderService
	Auth           ports.AuthService

	JWTSecret string
	// Pingers are probed by /health/ready, keyed by dependency name.
	Pingers map[string]ports.Pinger
	// Counter reports order counts on /health/ready; usually the order store.
	Counter interface {
		CountByStatus(ctx context.Context) (map[domain.OrderStatus]int64, error)
	}
	Backend string
	Version string
	Logger  zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.CORS())
	e.Use(echomiddleware.RequestLoggerWithConfig(requestLogger(d.Logger)))
	e.Use(echoprometheus.NewMiddleware("dispatch"))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.Auth)
	orderHandler := handler.NewOrderHandler(d.Orders)
	courierHandler := handler.NewCourierHandler(d.Couriers)
	externalHandler := handler.NewExternalOrderHandler(d.ExternalOrders)
	healthHandler := handler.NewHealthHandler(d.Pingers, d.Counter, d.Backend, d.Version)

	authMiddleware := middleware.Auth(d.JWTSecret, d.Auth)
	adminOnly := middleware.RBAC(domain.RoleAdmin)
	courierOnly := middleware.RBAC(domain.RoleCourier)

	// --- Operational routes (no auth required) ---
	e.GET("/", healthHandler.Banner)
	e.GET("/health", healthHandler.Liveness)        // liveness
	e.GET("/health/ready", healthHandler.Readiness) // readiness
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/register-user", authHandler.RegisterUser, authMiddleware)
	e.GET("/me", authHandler.Me, authMiddleware)
	e.POST("/admin/promote-user", authHandler.Promote, authMiddleware, adminOnly)

	// --- Courier registry ---
	e.POST("/cadastro", courierHandler.Register, authMiddleware, courierOnly)
	couriers := e.Group("/entregadores", authMiddleware, adminOnly)
	couriers.GET("", courierHandler.List)
	couriers.PATCH("/:id/aprovar", courierHandler.SetApproval)

	// --- Orders ---
	orders := e.Group("/pedidos", authMiddleware)
	orders.POST("", orderHandler.Create, adminOnly)
	orders.GET("", orderHandler.List)
	orders.GET("/:id", orderHandler.Get)
	orders.DELETE("/:id", orderHandler.Delete, adminOnly)
	orders.POST("/:id/aceitar", orderHandler.Claim, courierOnly)
	orders.PATCH("/:id/status", orderHandler.AdvanceStatus)
	orders.GET("/:id/eventos", orderHandler.Events, adminOnly)

	// --- External ingestion ---
	e.POST("/api/external/orders", externalHandler.Ingest)
	e.GET("/api/external/orders/:external_id", externalHandler.Get)
	e.GET("/api/external/orders", externalHandler.List, authMiddleware, adminOnly)
	e.POST("/api/upload-json", externalHandler.Upload, authMiddleware, adminOnly)
	e.GET("/api/json-orders", externalHandler.ListUploads, authMiddleware, adminOnly)

	return e
}

func requestLogger(log zerolog.Logger) echomiddleware.RequestLoggerConfig {
	return echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			switch {
			case v.Status >= 500:
				ev = log.Error().Err(v.Error)
			case v.Error != nil:
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	}
}
