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

type PositionService struct {
	positionRepository repositories.PositionRepositoryInterface
	logger             *zap.Logger
}

func NewPositionService(positionRepository repositories.PositionRepositoryInterface, logger *zap.Logger) *PositionService {
	return &PositionService{positionRepository: positionRepository, logger: logger}
}

func (s *PositionService) GetPositions(ctx context.Context, filter types.Filter) ([]entities.Position, uint64, error) {
	positions, total, err := s.positionRepository.GetPositions(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list positions", zap.Error(err))
		return nil, 0, err
	}
	return positions, total, nil
}

func (s *PositionService) FindPosition(ctx context.Context, id int64) (*entities.Position, error) {
	return s.positionRepository.FindPosition(ctx, id)
}

func (s *PositionService) CreatePosition(ctx context.Context, payload dto.CreatePositionDTO) (*entities.Position, error) {
	if _, err := s.positionRepository.FindPosition(ctx, payload.ID); err == nil {
		return nil, apperrors.NewConflictError("position with this id already exists")
	}
	position, err := s.positionRepository.CreatePosition(ctx, entities.Position{
		ID:             payload.ID,
		Description:    payload.Description,
		DepartmentID:   payload.DepartmentID.Ptr(),
		ParentID:       payload.ParentID.Ptr(),
		IsMitra:        payload.IsMitra,
		IsOfficer:      payload.IsOfficer,
		IsManager:      payload.IsManager,
		IsVP:           payload.IsVP,
		IsDirector:     payload.IsDirector,
		IsCommissioner: payload.IsCommissioner,
		IsSecretary:    payload.IsSecretary,
		IsDriver:       payload.IsDriver,
		IsSecurity:     payload.IsSecurity,
		IsIntern:       payload.IsIntern,
	})
	if err != nil {
		s.logger.Error("failed to create position", zap.Error(err))
		return nil, err
	}
	s.logger.Info("position created", zap.Int64("id", position.ID))
	return position, nil
}

func (s *PositionService) UpdatePosition(ctx context.Context, id int64, payload dto.UpdatePositionDTO) (*entities.Position, error) {
	position, err := s.positionRepository.UpdatePosition(ctx, id, payload)
	if err != nil {
		s.logger.Error("failed to update position", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return position, nil
}

func (s *PositionService) DeletePosition(ctx context.Context, id int64) error {
	err := s.positionRepository.DeletePosition(ctx, id)
	if err != nil {
		s.logger.Error("failed to delete position", zap.Int64("id", id), zap.Error(err))
	}
	return err
}
