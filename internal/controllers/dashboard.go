package controllers

import (
	"net/http"
	"strconv"
	"time"

	"capability-dashboard/internal/repositories"
	"capability-dashboard/internal/services"
	apperrors "capability-dashboard/pkg/errors"
	"capability-dashboard/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type DashboardController struct {
	dashboardService *services.DashboardService
	logger           *zap.Logger
}

func NewDashboardController(dashboardService *services.DashboardService, logger *zap.Logger) *DashboardController {
	return &DashboardController{dashboardService: dashboardService, logger: logger}
}

// parseYear accepts only a plain four digit year. A missing parameter
// defaults to the current year; anything non-numeric is rejected rather
// than silently coerced.
func parseYear(raw string) (int, error) {
	if raw == "" {
		return time.Now().Year(), nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 2000 || year > 2100 {
		return 0, apperrors.NewBadRequestError("invalid year parameter", err)
	}
	return year, nil
}

// GetCapabilityDashboard serves the full widget set.
func (c *DashboardController) GetCapabilityDashboard(ctx echo.Context) error {
	year, err := parseYear(ctx.QueryParam("year"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	filter := repositories.DashboardFilter{
		Year:         year,
		DepartmentID: ctx.QueryParam("department"),
	}
	if rawType := ctx.QueryParam("type"); rawType != "" {
		t, err := strconv.Atoi(rawType)
		if err != nil || (t != 1 && t != 2) {
			return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("invalid type parameter", err), c.logger)
		}
		filter.Type = t
	}

	dashboard, err := c.dashboardService.GetDashboard(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, dashboard, "Successfully", http.StatusOK)
}

// GetLegacyCapabilityDashboard serves the older summary screen kept for
// clients that have not migrated to the widget API.
func (c *DashboardController) GetLegacyCapabilityDashboard(ctx echo.Context) error {
	year, err := parseYear(ctx.QueryParam("year"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	dashboard, err := c.dashboardService.GetLegacyDashboard(ctx.Request().Context(), year)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, dashboard, "Successfully", http.StatusOK)
}

func (c *DashboardController) GetBasicStats(ctx echo.Context) error {
	stats, err := c.dashboardService.GetBasicStats(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, stats, "Successfully", http.StatusOK)
}

func (c *DashboardController) GetChart(ctx echo.Context) error {
	chart, err := c.dashboardService.GetChart(ctx.Request().Context(), ctx.Param("type"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, chart, "Successfully", http.StatusOK)
}
