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

type TargetController struct {
	targetService *services.TargetService
	logger        *zap.Logger
}

func NewTargetController(targetService *services.TargetService, logger *zap.Logger) *TargetController {
	return &TargetController{targetService: targetService, logger: logger}
}

func (c *TargetController) GetTargets(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	targets, total, err := c.targetService.GetTargets(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, targets, "Successfully", http.StatusOK, total)
}

func (c *TargetController) FindTarget(ctx echo.Context) error {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("invalid target id", err), c.logger)
	}
	target, err := c.targetService.FindTarget(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, target, "Successfully", http.StatusOK)
}

func (c *TargetController) CreateTarget(ctx echo.Context) error {
	var payload dto.CreateTargetDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Warn("failed to bind create target request", zap.Error(err))
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("request binding failed", err), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	target, err := c.targetService.CreateTarget(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, target, "Successfully created", http.StatusCreated)
}

func (c *TargetController) UpdateTarget(ctx echo.Context) error {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("invalid target id", err), c.logger)
	}

	var payload dto.UpdateTargetDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Warn("failed to bind update target request", zap.Error(err))
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("request binding failed", err), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	target, err := c.targetService.UpdateTarget(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, target, "Successfully updated", http.StatusOK)
}

func (c *TargetController) DeleteTarget(ctx echo.Context) error {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("invalid target id", err), c.logger)
	}
	if err := c.targetService.DeleteTarget(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Successfully deleted", http.StatusOK)
}
