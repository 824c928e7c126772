package router

import (
	"parking-rsvp-api/core/middleware"
	"parking-rsvp-api/modules/rsvp/controller"

	"github.com/labstack/echo/v4"
)

type RsvpRouter struct {
	Controller *controller.RsvpController
}

func NewRsvpRouter(ctrl *controller.RsvpController) *RsvpRouter {
	return &RsvpRouter{Controller: ctrl}
}

// Setup registers the guest RSVP surface. Guests authenticate with the
// token inside the request body, so only link generation sits behind the
// organizer auth middleware.
func (r *RsvpRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	rsvp := v1.Group("/rsvp")
	rsvp.GET("/events/:id", r.Controller.PublicGetEvent)
	rsvp.POST("/events/:id/reserve", r.Controller.PublicReserveParking)
	rsvp.POST("/events/:id/decline", r.Controller.PublicDeclineParking)
	rsvp.POST("/reservations/:reservationId/cancel", r.Controller.PublicCancelReservation)

	v1.POST("/events/:id/rsvp-link", r.Controller.PrivateGenerateLink, mw.AuthMiddleware())
}
