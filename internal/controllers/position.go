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

type PositionController struct {
	positionService *services.PositionService
	logger          *zap.Logger
}

func NewPositionController(positionService *services.PositionService, logger *zap.Logger) *PositionController {
	return &PositionController{positionService: positionService, logger: logger}
}

func (c *PositionController) GetPositions(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	positions, total, err := c.positionService.GetPositions(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, positions, "Successfully", http.StatusOK, total)
}

func (c *PositionController) FindPosition(ctx echo.Context) error {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("invalid position id", err), c.logger)
	}
	position, err := c.positionService.FindPosition(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, position, "Successfully", http.StatusOK)
}

func (c *PositionController) CreatePosition(ctx echo.Context) error {
	var payload dto.CreatePositionDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Warn("failed to bind create position request", zap.Error(err))
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("request binding failed", err), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	position, err := c.positionService.CreatePosition(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, position, "Successfully created", http.StatusCreated)
}

func (c *PositionController) UpdatePosition(ctx echo.Context) error {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("invalid position id", err), c.logger)
	}

	var payload dto.UpdatePositionDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Warn("failed to bind update position request", zap.Error(err))
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("request binding failed", err), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	position, err := c.positionService.UpdatePosition(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, position, "Successfully updated", http.StatusOK)
}

func (c *PositionController) DeletePosition(ctx echo.Context) error {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("invalid position id", err), c.logger)
	}
	if err := c.positionService.DeletePosition(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Successfully deleted", http.StatusOK)
}
