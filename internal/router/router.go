package router

import (
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"luxestate/internal/auth"
	"luxestate/internal/errors"
	"luxestate/internal/handler"
	"luxestate/internal/logger"
	"luxestate/internal/metrics"
)

// Handlers groups the HTTP handlers mounted by Register.
type Handlers struct {
	Auth       *handler.AuthHandler
	Properties *handler.PropertyHandler
	Bookings   *handler.BookingHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, tokens *auth.TokenService, h Handlers) {
	e.Use(middleware.RequestID())
	e.Use(requestLogger())
	e.Use(middleware.Recover())
	e.Use(metrics.Middleware())

	e.Validator = NewValidator()

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.GET("/test", func(c echo.Context) error {
		return c.JSON(http.StatusOK, handler.MessageResponse{Message: "Backend is working!"})
	})
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.GET("/properties", h.Properties.List)
	api.GET("/properties/:id", h.Properties.Get)

	// Secured routes (require JWT authentication)
	secured := api.Group("", Guard(tokens), attachIdentity)

	secured.GET("/auth/me", h.Auth.Me)

	secured.POST("/properties", h.Properties.Create)
	secured.DELETE("/properties/:id", h.Properties.Delete)

	secured.GET("/bookings", h.Bookings.List)
	secured.POST("/bookings", h.Bookings.Create)
	secured.DELETE("/bookings/:id", h.Bookings.Cancel)
}

// verifyErrKey holds the token service's error for the guard's error handler.
const verifyErrKey = "auth.verify_error"

// Guard authenticates bearer tokens with the token service. The verified
// user id is stored under the "user" context key.
func Guard(tokens *auth.TokenService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			id, err := tokens.Verify(token)
			if err != nil {
				c.Set(verifyErrKey, err)
				return nil, err
			}
			return id, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			// a misconfigured signing key is a server fault, not a bad token
			if verifyErr, ok := c.Get(verifyErrKey).(error); ok && errors.KindOf(verifyErr) == errors.KindUnexpected {
				httpErr := errors.MapErrorToHTTP(verifyErr)
				return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
			}
			reason := errors.ErrInvalidToken
			if c.Request().Header.Get(echo.HeaderAuthorization) == "" {
				reason = errors.ErrMissingToken
			}
			return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
				Message: reason.Message,
				Code:    "UNAUTHENTICATED",
			})
		},
	})
}

// attachIdentity copies the verified user id into the request context so
// services and loggers downstream can see it.
func attachIdentity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if id, ok := userIDFromEcho(c); ok {
			ctx := auth.WithUserID(c.Request().Context(), id)
			ctx = logger.With(ctx, "user_id", id.String())
			c.SetRequest(c.Request().WithContext(ctx))
		}
		return next(c)
	}
}

// requestLogger injects a request-scoped slog logger and logs each request
// once it completes.
func requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			requestID := c.Response().Header().Get(echo.HeaderXRequestID)
			ctx := logger.With(req.Context(), "request_id", requestID)
			c.SetRequest(req.WithContext(ctx))

			err := next(c)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			log := logger.WithContext(c.Request().Context())
			attrs := []any{
				"method", req.Method,
				"path", req.URL.Path,
				"status", status,
			}
			if status >= http.StatusInternalServerError {
				log.Error("request failed", append(attrs, "error", err)...)
			} else {
				log.Info("request handled", attrs...)
			}
			return err
		}
	}
}
