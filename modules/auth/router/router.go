package router

import (
	"parking-rsvp-api/core/middleware"
	"parking-rsvp-api/modules/auth/controller"

	"github.com/labstack/echo/v4"
)

type AuthRouter struct {
	Controller *controller.AuthController
}

func NewAuthRouter(ctrl *controller.AuthController) *AuthRouter {
	return &AuthRouter{Controller: ctrl}
}

func (r *AuthRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	auth := v1.Group("/auth")

	auth.POST("/login", r.Controller.PublicLogin)
	auth.GET("/me", r.Controller.PrivateMe, mw.AuthMiddleware())
}
