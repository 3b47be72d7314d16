package services

import (
	"context"

	"capability-dashboard/internal/dto"
	"capability-dashboard/internal/entities"
	"capability-dashboard/internal/repositories"
	"capability-dashboard/pkg/types"

	"go.uber.org/zap"
)

type EmployeeService struct {
	employeeRepository repositories.EmployeeRepositoryInterface
	logger             *zap.Logger
}

func NewEmployeeService(employeeRepository repositories.EmployeeRepositoryInterface, logger *zap.Logger) *EmployeeService {
	return &EmployeeService{employeeRepository: employeeRepository, logger: logger}
}

func (s *EmployeeService) GetEmployees(ctx context.Context, filter types.Filter) ([]entities.Employee, uint64, error) {
	employees, total, err := s.employeeRepository.GetEmployees(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list employees", zap.Error(err))
		return nil, 0, err
	}
	return employees, total, nil
}

func (s *EmployeeService) FindEmployee(ctx context.Context, id string) (*entities.Employee, error) {
	return s.employeeRepository.FindEmployee(ctx, id)
}

func (s *EmployeeService) CreateEmployee(ctx context.Context, payload dto.CreateEmployeeDTO) (*entities.Employee, error) {
	employee, err := s.employeeRepository.CreateEmployee(ctx, payload)
	if err != nil {
		s.logger.Error("failed to create employee", zap.Error(err))
		return nil, err
	}
	s.logger.Info("employee created", zap.String("id", employee.ID), zap.String("email", employee.Email))
	return employee, nil
}

func (s *EmployeeService) UpdateEmployee(ctx context.Context, id string, payload dto.UpdateEmployeeDTO) (*entities.Employee, error) {
	employee, err := s.employeeRepository.UpdateEmployee(ctx, id, payload)
	if err != nil {
		s.logger.Error("failed to update employee", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return employee, nil
}

func (s *EmployeeService) DeleteEmployee(ctx context.Context, id string) error {
	err := s.employeeRepository.DeleteEmployee(ctx, id)
	if err != nil {
		s.logger.Error("failed to delete employee", zap.String("id", id), zap.Error(err))
	}
	return err
}
