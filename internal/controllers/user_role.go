package controllers

import (
	"net/http"
	"strconv"

	"capability-dashboard/internal/dto"
	"capability-dashboard/internal/services"
	apperrors "capability-dashboard/pkg/errors"
	"capability-dashboard/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type UserRoleController struct {
	userRoleService *services.UserRoleService
	logger          *zap.Logger
}

func NewUserRoleController(userRoleService *services.UserRoleService, logger *zap.Logger) *UserRoleController {
	return &UserRoleController{userRoleService: userRoleService, logger: logger}
}

func (c *UserRoleController) GetUserRoles(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	assignments, total, err := c.userRoleService.GetUserRoles(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, assignments, "Successfully", http.StatusOK, total)
}

func (c *UserRoleController) AssignRole(ctx echo.Context) error {
	var payload dto.AssignRoleDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Warn("failed to bind assign role request", zap.Error(err))
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("request binding failed", err), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	assignment, err := c.userRoleService.AssignRole(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, assignment, "Successfully created", http.StatusCreated)
}

func (c *UserRoleController) RemoveAssignment(ctx echo.Context) error {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("invalid assignment id", err), c.logger)
	}
	if err := c.userRoleService.RemoveAssignment(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Successfully deleted", http.StatusOK)
}
