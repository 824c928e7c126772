package event

import (
	"parking-rsvp-api/core/config"
	"parking-rsvp-api/core/constants"
	"parking-rsvp-api/core/database"
	"parking-rsvp-api/core/middleware"
	"parking-rsvp-api/core/storage"
	"parking-rsvp-api/modules/event/controller"
	"parking-rsvp-api/modules/event/repository"
	"parking-rsvp-api/modules/event/router"
	"parking-rsvp-api/modules/event/service"
	rsvpRepository "parking-rsvp-api/modules/rsvp/repository"

	"github.com/labstack/echo/v4"
)

// Init wires the organizer event module.
func Init(e *echo.Echo, db database.IDatabase, mw *middleware.Middleware, reminders service.ReminderEnqueuer, uploader storage.Uploader) {
	cfg := config.Get()

	eventRepo := repository.NewEventRepository(db)
	responseRepo := rsvpRepository.NewResponseRepository(db)
	reservationRepo := rsvpRepository.NewReservationRepository(db)

	eventSvc := service.NewEventService(eventRepo, responseRepo, reminders)
	exportSvc := service.NewExportService(eventRepo, reservationRepo, uploader)

	devMode := cfg.Server.Env == constants.EnvDevelopment
	ctrl := controller.NewEventController(eventSvc, exportSvc, devMode)
	router.NewEventRouter(ctrl).Setup(e, mw)
}
