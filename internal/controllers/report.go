package controllers

import (
	"fmt"
	"net/http"

	"capability-dashboard/internal/services"
	"capability-dashboard/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ReportController struct {
	reportService *services.ReportService
	logger        *zap.Logger
}

func NewReportController(reportService *services.ReportService, logger *zap.Logger) *ReportController {
	return &ReportController{reportService: reportService, logger: logger}
}

// DownloadAchievementReport streams the export of one year's
// achievements, optionally narrowed to a department. format=json
// returns the flat rows instead of an XLSX workbook.
func (c *ReportController) DownloadAchievementReport(ctx echo.Context) error {
	year, err := parseYear(ctx.QueryParam("year"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if ctx.QueryParam("format") == "json" {
		rows, err := c.reportService.ListAchievementReportRows(ctx.Request().Context(), year, ctx.QueryParam("department"))
		if err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		return utils.SuccessResponse(ctx, rows, "Successfully", http.StatusOK)
	}

	content, filename, err := c.reportService.GenerateAchievementReport(ctx.Request().Context(), year, ctx.QueryParam("department"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return ctx.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", content)
}
