package services

import (
	"context"

	"capability-dashboard/internal/dto"
	"capability-dashboard/internal/entities"
	"capability-dashboard/internal/repositories"
	apperrors "capability-dashboard/pkg/errors"
	"capability-dashboard/pkg/types"

	"go.uber.org/zap"
)

type DepartmentService struct {
	departmentRepository repositories.DepartmentRepositoryInterface
	logger               *zap.Logger
}

func NewDepartmentService(departmentRepository repositories.DepartmentRepositoryInterface, logger *zap.Logger) *DepartmentService {
	return &DepartmentService{
		departmentRepository: departmentRepository,
		logger:               logger,
	}
}

func (s *DepartmentService) GetDepartments(ctx context.Context, filter types.Filter) ([]entities.Department, uint64, error) {
	departments, total, err := s.departmentRepository.GetDepartments(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list departments", zap.Error(err))
		return nil, 0, err
	}
	return departments, total, nil
}

func (s *DepartmentService) FindDepartment(ctx context.Context, id string) (*entities.Department, error) {
	return s.departmentRepository.FindDepartment(ctx, id)
}

func (s *DepartmentService) CreateDepartment(ctx context.Context, payload dto.CreateDepartmentDTO) (*entities.Department, error) {
	if _, err := s.departmentRepository.FindDepartment(ctx, payload.ID); err == nil {
		return nil, apperrors.NewConflictError("department with this id already exists")
	}
	department, err := s.departmentRepository.CreateDepartment(ctx, entities.Department{
		ID:           payload.ID,
		Description:  payload.Description,
		ParentID:     payload.ParentID.Ptr(),
		IsDepartment: payload.IsDepartment,
	})
	if err != nil {
		s.logger.Error("failed to create department", zap.Error(err))
		return nil, err
	}
	s.logger.Info("department created", zap.String("id", department.ID))
	return department, nil
}

func (s *DepartmentService) UpdateDepartment(ctx context.Context, id string, payload dto.UpdateDepartmentDTO) (*entities.Department, error) {
	department, err := s.departmentRepository.UpdateDepartment(ctx, id, payload)
	if err != nil {
		s.logger.Error("failed to update department", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return department, nil
}

func (s *DepartmentService) DeleteDepartment(ctx context.Context, id string) error {
	err := s.departmentRepository.DeleteDepartment(ctx, id)
	if err != nil {
		s.logger.Error("failed to delete department", zap.String("id", id), zap.Error(err))
	}
	return err
}
