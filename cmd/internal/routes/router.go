package routes

import (
	"clinic/cmd/internal/domain/entity"
	"clinic/cmd/internal/metrics"
	"clinic/cmd/internal/middleware"
	"clinic/cmd/internal/utils/apierror"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

type RouterOptions struct {
	Users        UserService
	Appointments AppointmentService
	Dashboard    DashboardService
	DB           Pinger
	Tokens       middleware.TokenParser
	Accounts     middleware.AccountLookup
	// Limiter throttles register and login. Nil disables throttling.
	Limiter     *middleware.RateLimiter
	CORSOrigins []string
	// TrustProxy takes the client address from X-Forwarded-For. Only set it
	// behind a proxy that overwrites the header.
	TrustProxy bool
	// AccessLog turns on echo's request logger.
	AccessLog bool
}

func NewRouter(opts RouterOptions) *echo.Echo {
	userRoutes := NewUserDefault(opts.Users)
	apptRoutes := NewAppointmentDefault(opts.Appointments)
	dashRoutes := NewDashboardDefault(opts.Dashboard)
	healthRoutes := NewHealthDefault(opts.DB)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = errorHandler
	// RealIP keys the rate limiter, so client headers are ignored by default
	e.IPExtractor = echo.ExtractIPDirect()
	if opts.TrustProxy {
		e.IPExtractor = echo.ExtractIPFromXFFHeader()
	}

	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echomw.Recover())
	if opts.AccessLog {
		e.Use(echomw.Logger())
	}
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{AllowOrigins: origins}))
	e.Use(middleware.Metrics())

	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	api := e.Group("/api")
	api.GET("/health", healthRoutes.GetHealth)

	// Auth
	throttled := []echo.MiddlewareFunc{}
	if opts.Limiter != nil {
		throttled = append(throttled, middleware.RateLimit(opts.Limiter))
	}
	api.POST("/auth/register", userRoutes.Register, throttled...)
	api.POST("/auth/login", userRoutes.Login, throttled...)

	secured := api.Group("", middleware.RequireToken(opts.Tokens, opts.Accounts))
	admin := middleware.RequireRole(entity.RoleAdmin)

	// Users
	secured.GET("/users", userRoutes.GetUsers, admin)
	secured.GET("/users/:id", userRoutes.GetUser)
	secured.DELETE("/users/:id", userRoutes.DeleteUser, admin)
	secured.GET("/doctors", userRoutes.GetDoctors)

	// Appointments
	secured.GET("/appointments", apptRoutes.GetAppointments)
	secured.POST("/appointments", apptRoutes.Book, middleware.RequireRole(entity.RolePatient, entity.RoleAdmin))
	secured.PUT("/appointments/:id/cancel", apptRoutes.Cancel)
	secured.POST("/appointments/:id/complete", apptRoutes.Complete, middleware.RequireRole(entity.RoleDoctor))
	secured.GET("/appointments/:id/record", apptRoutes.GetRecord)

	secured.GET("/dashboard", dashRoutes.GetDashboard)

	return e
}

// errorHandler renders every error that escapes a handler in the same
// {ok, code, message} shape the services use.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var apierr apierror.ErrorResponse
	var he *echo.HTTPError
	switch {
	case errors.As(err, &apierr):
	case errors.As(err, &he):
		msg, _ := he.Message.(string)
		if msg == "" {
			msg = http.StatusText(he.Code)
		}
		apierr = apierror.NewSimple(he.Code, msg)
	default:
		log.Errorf("unhandled error on %s %s: %v", c.Request().Method, c.Path(), err)
		apierr = apierror.InternalServerError
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(apierr.Code())
	} else {
		err = c.JSON(apierr.Code(), apierr)
	}
	if err != nil {
		log.Errorf("failed to write error response: %v", err)
	}
}
