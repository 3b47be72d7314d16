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

type EmployeeController struct {
	employeeService *services.EmployeeService
	logger          *zap.Logger
}

func NewEmployeeController(employeeService *services.EmployeeService, logger *zap.Logger) *EmployeeController {
	return &EmployeeController{employeeService: employeeService, logger: logger}
}

func (c *EmployeeController) GetEmployees(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	employees, total, err := c.employeeService.GetEmployees(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, employees, "Successfully", http.StatusOK, total)
}

func (c *EmployeeController) FindEmployee(ctx echo.Context) error {
	employee, err := c.employeeService.FindEmployee(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, employee, "Successfully", http.StatusOK)
}

func (c *EmployeeController) CreateEmployee(ctx echo.Context) error {
	var payload dto.CreateEmployeeDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Warn("failed to bind create employee request", zap.Error(err))
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("request binding failed", err), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	employee, err := c.employeeService.CreateEmployee(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, employee, "Successfully created", http.StatusCreated)
}

func (c *EmployeeController) UpdateEmployee(ctx echo.Context) error {
	var payload dto.UpdateEmployeeDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Warn("failed to bind update employee request", zap.Error(err))
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("request binding failed", err), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	employee, err := c.employeeService.UpdateEmployee(ctx.Request().Context(), ctx.Param("id"), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, employee, "Successfully updated", http.StatusOK)
}

func (c *EmployeeController) DeleteEmployee(ctx echo.Context) error {
	if err := c.employeeService.DeleteEmployee(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Successfully deleted", http.StatusOK)
}
