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

type RiskDataController struct {
	riskDataService *services.RiskDataService
	logger          *zap.Logger
}

func NewRiskDataController(riskDataService *services.RiskDataService, logger *zap.Logger) *RiskDataController {
	return &RiskDataController{riskDataService: riskDataService, logger: logger}
}

func (c *RiskDataController) GetRiskData(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	data, total, err := c.riskDataService.GetRiskData(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, data, "Successfully", http.StatusOK, total)
}

func (c *RiskDataController) FindRiskData(ctx echo.Context) error {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("invalid record id", err), c.logger)
	}
	record, err := c.riskDataService.FindRiskData(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, record, "Successfully", http.StatusOK)
}

func (c *RiskDataController) CreateRiskData(ctx echo.Context) error {
	var payload dto.CreateRiskDataDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Warn("failed to bind create risk data request", zap.Error(err))
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("request binding failed", err), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	record, err := c.riskDataService.CreateRiskData(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, record, "Successfully created", http.StatusCreated)
}

func (c *RiskDataController) UpdateRiskData(ctx echo.Context) error {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("invalid record id", err), c.logger)
	}

	var payload dto.UpdateRiskDataDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Warn("failed to bind update risk data request", zap.Error(err))
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("request binding failed", err), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	record, err := c.riskDataService.UpdateRiskData(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, record, "Successfully updated", http.StatusOK)
}

func (c *RiskDataController) DeleteRiskData(ctx echo.Context) error {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("invalid record id", err), c.logger)
	}
	if err := c.riskDataService.DeleteRiskData(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Successfully deleted", http.StatusOK)
}
