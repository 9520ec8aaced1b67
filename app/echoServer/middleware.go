// app/echoServer/middleware.go
package echoServer

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/krishaprecyll/CampusSHARE/service/session"
	jwtutil "github.com/krishaprecyll/CampusSHARE/util/jwt"
)

func RegisterMiddlewares(e *echo.Echo, corsOrigins []string) {

	e.Use(middleware.Recover())

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: corsOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	e.Use(Slog())
}

func Slog() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			lat := time.Since(start).Milliseconds()

			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			slog.Info("http",
				"method", c.Request().Method,
				"path", c.Path(),
				"status", c.Response().Status,
				"latency_ms", lat,
				"req_id", rid,
				"ip", c.RealIP(),
				"ua", c.Request().UserAgent(),
			)
			return err
		}
	}
}

// Principal resolves the token subject to its stored profile via the session
// manager, re-checking the role server-side on every request. The token is
// parsed from the Authorization header directly so the middleware stands on
// its own even outside an echo-jwt group.
func Principal(m *session.Manager, secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := jwtutil.ParseAuth(c.Request().Header.Get(echo.HeaderAuthorization), secret)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			uid, err := jwtutil.Subject(claims)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}

			u, err := m.Resolve(c.Request().Context(), uid)
			if err != nil {
				switch {
				case errors.Is(err, session.ErrForbidden):
					return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
				case errors.Is(err, session.ErrUnauthenticated):
					return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
				default:
					rid := c.Response().Header().Get(echo.HeaderXRequestID)
					slog.Error("principal resolve failed", "err", err, "req_id", rid)
					return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
				}
			}

			c.Set("principal", u)
			c.Set("user_id", u.ID)
			c.Set("role", string(u.Role))
			return next(c)
		}
	}
}
