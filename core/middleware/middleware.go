// Package middleware holds echo middlewares shared by module routers.
package middleware

import (
	"net/http"
	"strings"
	"time"

	"parking-rsvp-api/core/constants"
	"parking-rsvp-api/core/controller"
	"parking-rsvp-api/core/errors"
	"parking-rsvp-api/core/logger"
	"parking-rsvp-api/core/utils"

	"github.com/labstack/echo/v4"
)

// TokenVerifier is implemented by the auth service.
type TokenVerifier interface {
	VerifyAccessToken(token string) (*utils.TokenClaims, error)
}

type Middleware struct {
	verifier TokenVerifier
}

func NewMiddleware(verifier TokenVerifier) *Middleware {
	return &Middleware{verifier: verifier}
}

// AuthMiddleware guards organizer routes with a Bearer JWT. Verified claims
// are stored under constants.ContextTokenData for controllers.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return controller.NewErrorResponse(
					http.StatusUnauthorized, errors.ErrMissingAuthorizationHeader, "Authorization header required")
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return controller.NewErrorResponse(
					http.StatusUnauthorized, errors.ErrInvalidTokenFormat, "Authorization header must be a Bearer token")
			}

			claims, err := m.verifier.VerifyAccessToken(parts[1])
			if err != nil {
				logger.Warn("Middleware:Auth:InvalidToken", "error", err)
				return controller.NewErrorResponse(
					http.StatusUnauthorized, errors.ErrUnauthorized, "Invalid or expired token")
			}

			c.Set(constants.ContextTokenData, claims)
			return next(c)
		}
	}
}

// RequestLogger logs one line per request with latency and status.
func (m *Middleware) RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			logger.Info("http request",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"latency", time.Since(start).String(),
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			)
			return nil
		}
	}
}
