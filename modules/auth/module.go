package auth

import (
	"parking-rsvp-api/core/config"
	"parking-rsvp-api/core/middleware"
	"parking-rsvp-api/modules/auth/controller"
	"parking-rsvp-api/modules/auth/router"
	"parking-rsvp-api/modules/auth/service"

	"github.com/labstack/echo/v4"
)

// Init wires organizer authentication and returns the service so the server
// can build the auth middleware from it.
func Init(e *echo.Echo) (*service.AuthService, *middleware.Middleware) {
	cfg := config.Get()

	authSvc := service.NewAuthService(cfg.Auth)
	mw := middleware.NewMiddleware(authSvc)

	ctrl := controller.NewAuthController(authSvc)
	router.NewAuthRouter(ctrl).Setup(e, mw)

	return authSvc, mw
}
