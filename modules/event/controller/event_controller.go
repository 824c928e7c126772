package controller

import (
	"net/url"
	"strconv"

	"parking-rsvp-api/core/controller"
	"parking-rsvp-api/core/errors"
	"parking-rsvp-api/core/params"
	"parking-rsvp-api/modules/event/dto"
	"parking-rsvp-api/modules/event/service"

	"github.com/labstack/echo/v4"
)

type EventController struct {
	controller.BaseController
	EventService  *service.EventService
	ExportService *service.ExportService
	DevMode       bool
}

func NewEventController(eventSvc *service.EventService, exportSvc *service.ExportService, devMode bool) *EventController {
	return &EventController{
		BaseController: controller.NewBaseController(),
		EventService:   eventSvc,
		ExportService:  exportSvc,
		DevMode:        devMode,
	}
}

func (ctl *EventController) eventID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (ctl *EventController) PrivateCreateEvent(c echo.Context) error {
	ctx := c.Request().Context()

	requestData := new(dto.CreateEventRequest)
	if err := c.Bind(requestData); err != nil {
		return ctl.BadRequest(errors.ErrInvalidRequestData, "Invalid request data", nil)
	}

	event, appErr := ctl.EventService.Create(ctx, requestData)
	if appErr != nil {
		return ctl.ErrorResponse(c, appErr)
	}
	return ctl.SuccessResponse(c, event, "create event success")
}

func (ctl *EventController) PrivateGetEvent(c echo.Context) error {
	ctx := c.Request().Context()

	id, ok := ctl.eventID(c)
	if !ok {
		return ctl.BadRequest(errors.ErrInvalidInput, "invalid event id", nil)
	}

	event, appErr := ctl.EventService.GetByID(ctx, id)
	if appErr != nil {
		return ctl.ErrorResponse(c, appErr)
	}
	return ctl.SuccessResponse(c, event, "get event success")
}

func (ctl *EventController) PrivateListEvents(c echo.Context) error {
	ctx := c.Request().Context()

	values, err := url.ParseQuery(c.QueryString())
	if err != nil {
		values = url.Values{}
	}
	queryParams := params.FromValues(values)

	events, appErr := ctl.EventService.List(ctx, *queryParams)
	if appErr != nil {
		return ctl.ErrorResponse(c, appErr)
	}
	return ctl.SuccessResponse(c, events, "list events success")
}

func (ctl *EventController) PrivateUpdateEvent(c echo.Context) error {
	ctx := c.Request().Context()

	id, ok := ctl.eventID(c)
	if !ok {
		return ctl.BadRequest(errors.ErrInvalidInput, "invalid event id", nil)
	}

	requestData := new(dto.UpdateEventRequest)
	if err := c.Bind(requestData); err != nil {
		return ctl.BadRequest(errors.ErrInvalidRequestData, "Invalid request data", nil)
	}

	event, appErr := ctl.EventService.Update(ctx, id, requestData)
	if appErr != nil {
		return ctl.ErrorResponse(c, appErr)
	}
	return ctl.SuccessResponse(c, event, "update event success")
}

func (ctl *EventController) PrivateCancelEvent(c echo.Context) error {
	ctx := c.Request().Context()

	id, ok := ctl.eventID(c)
	if !ok {
		return ctl.BadRequest(errors.ErrInvalidInput, "invalid event id", nil)
	}

	event, appErr := ctl.EventService.Cancel(ctx, id)
	if appErr != nil {
		return ctl.ErrorResponse(c, appErr)
	}
	return ctl.SuccessResponse(c, event, "cancel event success")
}

func (ctl *EventController) PrivateDeleteEvent(c echo.Context) error {
	ctx := c.Request().Context()

	id, ok := ctl.eventID(c)
	if !ok {
		return ctl.BadRequest(errors.ErrInvalidInput, "invalid event id", nil)
	}

	if appErr := ctl.EventService.Delete(ctx, id); appErr != nil {
		return ctl.ErrorResponse(c, appErr)
	}
	return ctl.SuccessResponse(c, nil, "delete event success")
}

// PrivateResetCounters is a development helper and is rejected elsewhere.
func (ctl *EventController) PrivateResetCounters(c echo.Context) error {
	ctx := c.Request().Context()

	if !ctl.DevMode {
		return ctl.Forbidden(errors.ErrForbidden, "reset is only available in development", nil)
	}

	result, appErr := ctl.EventService.ResetCounters(ctx)
	if appErr != nil {
		return ctl.ErrorResponse(c, appErr)
	}
	return ctl.SuccessResponse(c, result, "reset counters success")
}

// PrivateSimulateRsvp fakes one guest response, development only.
func (ctl *EventController) PrivateSimulateRsvp(c echo.Context) error {
	ctx := c.Request().Context()

	if !ctl.DevMode {
		return ctl.Forbidden(errors.ErrForbidden, "simulate is only available in development", nil)
	}

	id, ok := ctl.eventID(c)
	if !ok {
		return ctl.BadRequest(errors.ErrInvalidInput, "invalid event id", nil)
	}

	requestData := new(dto.SimulateRsvpRequest)
	if err := c.Bind(requestData); err != nil {
		return ctl.BadRequest(errors.ErrInvalidRequestData, "Invalid request data", nil)
	}

	event, appErr := ctl.EventService.SimulateRSVP(ctx, id, requestData.NeedsParking)
	if appErr != nil {
		return ctl.ErrorResponse(c, appErr)
	}
	return ctl.SuccessResponse(c, event, "simulate rsvp success")
}

func (ctl *EventController) PrivateSendReminders(c echo.Context) error {
	ctx := c.Request().Context()

	id, ok := ctl.eventID(c)
	if !ok {
		return ctl.BadRequest(errors.ErrInvalidInput, "invalid event id", nil)
	}

	result, appErr := ctl.EventService.SendReminders(ctx, id)
	if appErr != nil {
		return ctl.ErrorResponse(c, appErr)
	}
	return ctl.SuccessResponse(c, result, "send reminders success")
}

func (ctl *EventController) PrivateExportReservations(c echo.Context) error {
	ctx := c.Request().Context()

	id, ok := ctl.eventID(c)
	if !ok {
		return ctl.BadRequest(errors.ErrInvalidInput, "invalid event id", nil)
	}

	result, appErr := ctl.ExportService.ExportReservations(ctx, id)
	if appErr != nil {
		return ctl.ErrorResponse(c, appErr)
	}
	return ctl.SuccessResponse(c, result, "export reservations success")
}
