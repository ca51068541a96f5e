package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/IvanBritz/Aidpoint1/docs"
	"github.com/IvanBritz/Aidpoint1/internal/api/handler"
	"github.com/IvanBritz/Aidpoint1/internal/api/middleware"
	"github.com/IvanBritz/Aidpoint1/internal/core/domain"
	"github.com/IvanBritz/Aidpoint1/internal/core/ports"
	"github.com/IvanBritz/Aidpoint1/internal/infrastructure/http/handlers"
)

// Services are the use cases the HTTP layer dispatches to.
type Services struct {
	Auth          ports.AuthService
	Privileges    ports.PrivilegeChecker
	Catalog       ports.CatalogService
	Employees     ports.EmployeeService
	Beneficiaries ports.BeneficiaryService
	Positions     ports.PositionService
	Plans         ports.PlanService
	Subscriptions ports.SubscriptionService
	AidRequests   ports.AidRequestService
}

type Options struct {
	Logger zerolog.Logger
	// LoginRateLimit is the requests per second allowed per client IP on
	// /auth/register and /auth/login. Zero disables the limiter.
	LoginRateLimit float64
	// Readiness checks run by /health/ready, keyed by dependency name.
	Readiness map[string]handlers.Check
	// Metrics mounts the Prometheus middleware and /metrics.
	Metrics bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(svc Services, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(opts.Logger))
	if opts.Metrics {
		e.Use(echoprometheus.NewMiddleware("aidpoint"))
		e.GET("/metrics", echoprometheus.NewHandler())
	}

	// --- Health probes and docs (no auth required) ---
	e.GET("/health", handlers.NewHealthHandler().Liveness)
	e.GET("/health/ready", handlers.NewReadinessHandler(opts.Readiness).Readiness)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	authn := middleware.Auth(svc.Auth)
	directorOnly := middleware.RBAC(domain.RoleProjectDirector)

	// --- Auth ---
	authHandler := handler.NewAuthHandler(svc.Auth)
	var limited []echo.MiddlewareFunc
	if opts.LoginRateLimit > 0 {
		store := echomiddleware.NewRateLimiterMemoryStore(rate.Limit(opts.LoginRateLimit))
		limited = append(limited, echomiddleware.RateLimiter(store))
	}
	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register, limited...)
	auth.POST("/login", authHandler.Login, limited...)
	auth.POST("/change-password", authHandler.ChangePassword, authn)
	auth.POST("/logout", authHandler.Logout, authn)
	auth.GET("/me", authHandler.Me, authn)

	// --- Employees, positions and the privilege catalog ---
	employeeHandler := handler.NewEmployeeHandler(svc.Employees)
	positionHandler := handler.NewPositionHandler(svc.Positions, svc.Catalog)
	employees := e.Group("/employees", authn, directorOnly)
	employees.GET("/privileges/list", positionHandler.Privileges)
	employees.GET("/positions/list", positionHandler.List)
	employees.POST("/positions", positionHandler.Create)
	employees.GET("/positions/:id", positionHandler.Get)
	employees.PUT("/positions/:id", positionHandler.Update)
	employees.DELETE("/positions/:id", positionHandler.Delete)
	employees.GET("", employeeHandler.List)
	employees.POST("", employeeHandler.Create)
	employees.GET("/:id", employeeHandler.Get)
	employees.PUT("/:id", employeeHandler.Update)
	employees.DELETE("/:id", employeeHandler.Delete)
	employees.POST("/:id/privileges", employeeHandler.GrantPrivilege)
	employees.DELETE("/:id/privileges/:name", employeeHandler.RevokePrivilege)
	employees.POST("/:id/unlock", employeeHandler.Unlock)

	// --- Beneficiaries ---
	beneficiaryHandler := handler.NewBeneficiaryHandler(svc.Beneficiaries)
	beneficiaries := e.Group("/beneficiaries", authn, directorOnly)
	beneficiaries.GET("", beneficiaryHandler.List)
	beneficiaries.POST("", beneficiaryHandler.Create)
	beneficiaries.GET("/:id", beneficiaryHandler.Get)
	beneficiaries.PUT("/:id", beneficiaryHandler.Update)
	beneficiaries.DELETE("/:id", beneficiaryHandler.Delete)

	myProfile := e.Group("/my-profile", authn, middleware.RBAC(domain.RoleBeneficiary))
	myProfile.GET("", beneficiaryHandler.MyProfile)
	myProfile.PUT("", beneficiaryHandler.UpdateMyProfile)

	// --- Plans and subscriptions ---
	subscriptionHandler := handler.NewSubscriptionHandler(svc.Plans, svc.Subscriptions)
	e.GET("/plans", subscriptionHandler.Plans, authn)
	subscriptions := e.Group("/subscriptions", authn, directorOnly)
	subscriptions.GET("", subscriptionHandler.List)
	subscriptions.GET("/current", subscriptionHandler.Current)
	subscriptions.POST("", subscriptionHandler.Subscribe)
	subscriptions.POST("/:id/cancel", subscriptionHandler.Cancel)
	subscriptions.POST("/:id/extend", subscriptionHandler.Extend)

	// --- Aid requests: gated by privilege, not by role ---
	aidHandler := handler.NewAidRequestHandler(svc.AidRequests)
	canView := middleware.RequireAnyPrivilege(svc.Privileges,
		domain.PrivilegeAidRequest, domain.PrivilegeViewApplications, domain.PrivilegeManageApplications)
	canDecide := middleware.RequireAllPrivileges(svc.Privileges,
		domain.PrivilegeAidRequest, domain.PrivilegeApproveApplications)
	aid := e.Group("/aid-requests", authn)
	aid.GET("", aidHandler.List, canView)
	aid.POST("", aidHandler.Create, middleware.RequirePrivilege(svc.Privileges, domain.PrivilegeAidRequest))
	aid.GET("/:id", aidHandler.Get, canView)
	aid.POST("/:id/approve", aidHandler.Approve, canDecide)
	aid.POST("/:id/reject", aidHandler.Reject, canDecide)

	return e
}

// requestLogger writes one zerolog event per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			event := log.Info()
			if v.Status >= 500 {
				event = log.Error().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
