package rsvp

import (
	"parking-rsvp-api/core/cache"
	"parking-rsvp-api/core/config"
	"parking-rsvp-api/core/database"
	"parking-rsvp-api/core/middleware"
	eventRepository "parking-rsvp-api/modules/event/repository"
	"parking-rsvp-api/modules/rsvp/controller"
	"parking-rsvp-api/modules/rsvp/repository"
	"parking-rsvp-api/modules/rsvp/router"
	"parking-rsvp-api/modules/rsvp/service"

	"github.com/labstack/echo/v4"
)

// Init wires the guest RSVP module and returns the service for other
// modules that need to act on guest responses.
func Init(e *echo.Echo, db database.IDatabase, c cache.Cache, mw *middleware.Middleware) (*service.RsvpService, *service.LinkService) {
	cfg := config.Get()

	eventRepo := eventRepository.NewEventRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	responseRepo := repository.NewResponseRepository(db)

	rsvpSvc := service.NewRsvpService(eventRepo, reservationRepo, responseRepo, cfg.RSVP.TokenSecret)
	linkSvc := service.NewLinkService(eventRepo, c, cfg.RSVP.TokenSecret, cfg.RSVP.LinkBaseURL)

	ctrl := controller.NewRsvpController(rsvpSvc, linkSvc)
	router.NewRsvpRouter(ctrl).Setup(e, mw)

	return rsvpSvc, linkSvc
}
