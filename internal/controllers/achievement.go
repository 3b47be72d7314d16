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

type AchievementController struct {
	achievementService *services.AchievementService
	logger             *zap.Logger
}

func NewAchievementController(achievementService *services.AchievementService, logger *zap.Logger) *AchievementController {
	return &AchievementController{achievementService: achievementService, logger: logger}
}

func (c *AchievementController) GetAchievements(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	achievements, total, err := c.achievementService.GetAchievements(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, achievements, "Successfully", http.StatusOK, total)
}

func (c *AchievementController) FindAchievement(ctx echo.Context) error {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("invalid achievement id", err), c.logger)
	}
	achievement, err := c.achievementService.FindAchievement(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, achievement, "Successfully", http.StatusOK)
}

func (c *AchievementController) CreateAchievement(ctx echo.Context) error {
	var payload dto.CreateAchievementDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Warn("failed to bind create achievement request", zap.Error(err))
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("request binding failed", err), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	achievement, err := c.achievementService.CreateAchievement(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, achievement, "Successfully created", http.StatusCreated)
}

func (c *AchievementController) UpdateAchievement(ctx echo.Context) error {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("invalid achievement id", err), c.logger)
	}

	var payload dto.UpdateAchievementDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Warn("failed to bind update achievement request", zap.Error(err))
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("request binding failed", err), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	achievement, err := c.achievementService.UpdateAchievement(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, achievement, "Successfully updated", http.StatusOK)
}

func (c *AchievementController) DeleteAchievement(ctx echo.Context) error {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("invalid achievement id", err), c.logger)
	}
	if err := c.achievementService.DeleteAchievement(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Successfully deleted", http.StatusOK)
}
