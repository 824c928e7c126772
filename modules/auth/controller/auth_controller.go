package controller

import (
	"parking-rsvp-api/core/constants"
	"parking-rsvp-api/core/controller"
	"parking-rsvp-api/core/errors"
	"parking-rsvp-api/core/utils"
	"parking-rsvp-api/modules/auth/dto"
	"parking-rsvp-api/modules/auth/service"

	"github.com/labstack/echo/v4"
)

type AuthController struct {
	controller.BaseController
	AuthService *service.AuthService
}

func NewAuthController(authSvc *service.AuthService) *AuthController {
	return &AuthController{
		BaseController: controller.NewBaseController(),
		AuthService:    authSvc,
	}
}

func (ctl *AuthController) PublicLogin(c echo.Context) error {
	ctx := c.Request().Context()

	requestData := new(dto.LoginRequest)
	if err := c.Bind(requestData); err != nil {
		return ctl.BadRequest(errors.ErrInvalidRequestData, "Invalid request data", nil)
	}

	result, appErr := ctl.AuthService.Login(ctx, requestData)
	if appErr != nil {
		return ctl.ErrorResponse(c, appErr)
	}
	return ctl.SuccessResponse(c, result, "login success")
}

// PrivateMe echoes the authenticated organizer, mostly for session checks in
// the admin UI.
func (ctl *AuthController) PrivateMe(c echo.Context) error {
	tokenData := c.Get(constants.ContextTokenData)
	claims, ok := tokenData.(*utils.TokenClaims)
	if !ok || claims == nil {
		return ctl.Unauthorized(errors.ErrUnauthorized, "User not authenticated", nil)
	}
	return ctl.SuccessResponse(c, &dto.MeResponse{Email: claims.Email}, "get profile success")
}
