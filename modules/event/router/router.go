package router

import (
	"parking-rsvp-api/core/middleware"
	"parking-rsvp-api/modules/event/controller"

	"github.com/labstack/echo/v4"
)

type EventRouter struct {
	Controller *controller.EventController
}

func NewEventRouter(ctrl *controller.EventController) *EventRouter {
	return &EventRouter{Controller: ctrl}
}

// Setup registers the organizer surface. Every route requires a Bearer token.
func (r *EventRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	events := v1.Group("/events", mw.AuthMiddleware())

	events.POST("", r.Controller.PrivateCreateEvent)
	events.GET("", r.Controller.PrivateListEvents)
	events.POST("/reset-counters", r.Controller.PrivateResetCounters)
	events.GET("/:id", r.Controller.PrivateGetEvent)
	events.PUT("/:id", r.Controller.PrivateUpdateEvent)
	events.DELETE("/:id", r.Controller.PrivateDeleteEvent)
	events.POST("/:id/cancel", r.Controller.PrivateCancelEvent)
	events.POST("/:id/simulate-rsvp", r.Controller.PrivateSimulateRsvp)
	events.POST("/:id/remind", r.Controller.PrivateSendReminders)
	events.POST("/:id/export", r.Controller.PrivateExportReservations)
}
