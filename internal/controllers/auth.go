package controllers

import (
	"net/http"

	"capability-dashboard/internal/dto"
	"capability-dashboard/internal/services"
	apperrors "capability-dashboard/pkg/errors"
	"capability-dashboard/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AuthController struct {
	authService *services.AuthService
	logger      *zap.Logger
}

func NewAuthController(authService *services.AuthService, logger *zap.Logger) *AuthController {
	return &AuthController{authService: authService, logger: logger}
}

func (c *AuthController) Login(ctx echo.Context) error {
	var payload dto.LoginDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Warn("failed to bind login request", zap.Error(err))
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("request binding failed", err), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	tokens, err := c.authService.Login(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, tokens, "Successfully", http.StatusOK)
}

func (c *AuthController) RefreshToken(ctx echo.Context) error {
	var payload dto.RefreshTokenDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Warn("failed to bind refresh request", zap.Error(err))
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("request binding failed", err), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	tokens, err := c.authService.RefreshToken(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, tokens, "Successfully", http.StatusOK)
}

func (c *AuthController) GetProfile(ctx echo.Context) error {
	employeeID, err := utils.GetEmployeeIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	profile, err := c.authService.GetProfile(ctx.Request().Context(), employeeID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, profile, "Successfully", http.StatusOK)
}
