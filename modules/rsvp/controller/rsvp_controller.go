package controller

import (
	"net/http"
	"strconv"

	"parking-rsvp-api/core/controller"
	"parking-rsvp-api/core/errors"
	"parking-rsvp-api/modules/rsvp/dto"
	"parking-rsvp-api/modules/rsvp/service"

	"github.com/labstack/echo/v4"
)

type RsvpController struct {
	controller.BaseController
	RsvpService *service.RsvpService
	LinkService *service.LinkService
}

func NewRsvpController(rsvpSvc *service.RsvpService, linkSvc *service.LinkService) *RsvpController {
	return &RsvpController{
		BaseController: controller.NewBaseController(),
		RsvpService:    rsvpSvc,
		LinkService:    linkSvc,
	}
}

func parseEventID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// PublicGetEvent returns the event shown on the guest RSVP page.
func (ctl *RsvpController) PublicGetEvent(c echo.Context) error {
	ctx := c.Request().Context()

	eventID, ok := parseEventID(c)
	if !ok {
		return ctl.BadRequest(errors.ErrInvalidInput, "invalid event id", nil)
	}

	event, appErr := ctl.RsvpService.GetEvent(ctx, eventID)
	if appErr != nil {
		return ctl.ErrorResponse(c, appErr)
	}

	return ctl.SuccessResponse(c, event, "get event success")
}

// PublicReserveParking always answers 200; the outcome, including domain
// failures, rides in the result body.
func (ctl *RsvpController) PublicReserveParking(c echo.Context) error {
	ctx := c.Request().Context()

	eventID, ok := parseEventID(c)
	if !ok {
		return ctl.BadRequest(errors.ErrInvalidInput, "invalid event id", nil)
	}

	requestData := new(dto.ReserveParkingRequest)
	if err := c.Bind(requestData); err != nil {
		return ctl.BadRequest(errors.ErrInvalidRequestData, "Invalid request data", nil)
	}

	result := ctl.RsvpService.ReserveParking(ctx, eventID, requestData.GuestName, requestData.LicensePlate, requestData.Token)
	return c.JSON(http.StatusOK, result)
}

func (ctl *RsvpController) PublicDeclineParking(c echo.Context) error {
	ctx := c.Request().Context()

	eventID, ok := parseEventID(c)
	if !ok {
		return ctl.BadRequest(errors.ErrInvalidInput, "invalid event id", nil)
	}

	requestData := new(dto.DeclineParkingRequest)
	if err := c.Bind(requestData); err != nil {
		return ctl.BadRequest(errors.ErrInvalidRequestData, "Invalid request data", nil)
	}

	result := ctl.RsvpService.DeclineParking(ctx, eventID, requestData.Token)
	return c.JSON(http.StatusOK, result)
}

func (ctl *RsvpController) PublicCancelReservation(c echo.Context) error {
	ctx := c.Request().Context()

	reservationID := c.Param("reservationId")
	if reservationID == "" {
		return ctl.BadRequest(errors.ErrInvalidInput, "invalid reservation id", nil)
	}

	requestData := new(dto.CancelReservationRequest)
	if err := c.Bind(requestData); err != nil {
		return ctl.BadRequest(errors.ErrInvalidRequestData, "Invalid request data", nil)
	}

	result := ctl.RsvpService.CancelReservation(ctx, reservationID, requestData.Token)
	return c.JSON(http.StatusOK, result)
}

// PrivateGenerateLink issues a signed RSVP link for one guest of the event.
func (ctl *RsvpController) PrivateGenerateLink(c echo.Context) error {
	ctx := c.Request().Context()

	eventID, ok := parseEventID(c)
	if !ok {
		return ctl.BadRequest(errors.ErrInvalidInput, "invalid event id", nil)
	}

	requestData := new(dto.GenerateLinkRequest)
	if err := c.Bind(requestData); err != nil {
		return ctl.BadRequest(errors.ErrInvalidRequestData, "Invalid request data", nil)
	}
	requestData.EventID = eventID

	result, appErr := ctl.LinkService.GenerateLink(ctx, requestData)
	if appErr != nil {
		return ctl.ErrorResponse(c, appErr)
	}

	return ctl.SuccessResponse(c, result, "generate link success")
}
