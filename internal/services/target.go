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

type TargetService struct {
	targetRepository     repositories.TargetRepositoryInterface
	departmentRepository repositories.DepartmentRepositoryInterface
	logger               *zap.Logger
}

func NewTargetService(
	targetRepository repositories.TargetRepositoryInterface,
	departmentRepository repositories.DepartmentRepositoryInterface,
	logger *zap.Logger,
) *TargetService {
	return &TargetService{
		targetRepository:     targetRepository,
		departmentRepository: departmentRepository,
		logger:               logger,
	}
}

func (s *TargetService) GetTargets(ctx context.Context, filter types.Filter) ([]entities.TargetWithDepartment, uint64, error) {
	targets, total, err := s.targetRepository.GetTargets(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list targets", zap.Error(err))
		return nil, 0, err
	}
	return targets, total, nil
}

func (s *TargetService) FindTarget(ctx context.Context, id int64) (*entities.Target, error) {
	return s.targetRepository.FindTarget(ctx, id)
}

// CreateTarget enforces the one-target-per-department-per-year rule at
// the service level so the caller gets a conflict instead of a raw
// unique constraint violation.
func (s *TargetService) CreateTarget(ctx context.Context, payload dto.CreateTargetDTO) (*entities.Target, error) {
	if _, err := s.departmentRepository.FindDepartment(ctx, payload.DepartmentID); err != nil {
		return nil, apperrors.NewNotFoundError("department not found")
	}
	if _, err := s.targetRepository.FindTargetByDepartmentYear(ctx, payload.DepartmentID, payload.Year); err == nil {
		return nil, apperrors.NewConflictError("target for this department and year already exists")
	}

	target, err := s.targetRepository.CreateTarget(ctx, payload)
	if err != nil {
		s.logger.Error("failed to create target",
			zap.String("department_id", payload.DepartmentID),
			zap.Int("year", payload.Year),
			zap.Error(err))
		return nil, err
	}
	return target, nil
}

func (s *TargetService) UpdateTarget(ctx context.Context, id int64, payload dto.UpdateTargetDTO) (*entities.Target, error) {
	target, err := s.targetRepository.UpdateTarget(ctx, id, payload)
	if err != nil {
		s.logger.Error("failed to update target", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return target, nil
}

func (s *TargetService) DeleteTarget(ctx context.Context, id int64) error {
	err := s.targetRepository.DeleteTarget(ctx, id)
	if err != nil {
		s.logger.Error("failed to delete target", zap.Int64("id", id), zap.Error(err))
	}
	return err
}
