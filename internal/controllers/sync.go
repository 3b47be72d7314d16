package controllers

import (
	"net/http"

	"capability-dashboard/internal/services"
	"capability-dashboard/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type SyncController struct {
	syncService *services.SyncService
	logger      *zap.Logger
}

func NewSyncController(syncService *services.SyncService, logger *zap.Logger) *SyncController {
	return &SyncController{syncService: syncService, logger: logger}
}

// actor returns the display name of the session user for the sync audit
// trail. An empty name is recorded as System downstream.
func (c *SyncController) actor(ctx echo.Context) string {
	if name := utils.GetEmployeeNameFromCtx(ctx.Request().Context()); name != "" {
		return name
	}
	return ""
}

func (c *SyncController) SyncAll(ctx echo.Context) error {
	result, err := c.syncService.SyncAll(ctx.Request().Context(), c.actor(ctx), ctx.RealIP())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "Successfully", http.StatusOK)
}

func (c *SyncController) SyncDepartments(ctx echo.Context) error {
	result, err := c.syncService.SyncDepartments(ctx.Request().Context(), c.actor(ctx), ctx.RealIP())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "Successfully", http.StatusOK)
}

func (c *SyncController) SyncPositions(ctx echo.Context) error {
	result, err := c.syncService.SyncPositions(ctx.Request().Context(), c.actor(ctx), ctx.RealIP())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "Successfully", http.StatusOK)
}

func (c *SyncController) SyncEmployees(ctx echo.Context) error {
	result, err := c.syncService.SyncEmployees(ctx.Request().Context(), c.actor(ctx), ctx.RealIP())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "Successfully", http.StatusOK)
}

func (c *SyncController) GetSyncLogs(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	logs, total, err := c.syncService.GetSyncLogs(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, logs, "Successfully", http.StatusOK, total)
}

func (c *SyncController) GetLastSync(ctx echo.Context) error {
	log, err := c.syncService.GetLastSync(ctx.Request().Context(), ctx.QueryParam("type"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, log, "Successfully", http.StatusOK)
}

func (c *SyncController) TestConnection(ctx echo.Context) error {
	result := c.syncService.TestConnection(ctx.Request().Context())
	code := http.StatusOK
	if !result.Reachable {
		code = http.StatusBadGateway
	}
	return ctx.JSON(code, map[string]interface{}{
		"status":  result.Reachable,
		"message": result.Message,
		"body":    result,
	})
}
