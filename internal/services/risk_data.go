package services

import (
	"context"

	"capability-dashboard/internal/dto"
	"capability-dashboard/internal/entities"
	"capability-dashboard/internal/repositories"
	"capability-dashboard/pkg/types"

	"go.uber.org/zap"
)

type RiskDataService struct {
	riskDataRepository repositories.RiskDataRepositoryInterface
	logger             *zap.Logger
}

func NewRiskDataService(riskDataRepository repositories.RiskDataRepositoryInterface, logger *zap.Logger) *RiskDataService {
	return &RiskDataService{riskDataRepository: riskDataRepository, logger: logger}
}

func (s *RiskDataService) GetRiskData(ctx context.Context, filter types.Filter) ([]entities.RiskData, uint64, error) {
	data, total, err := s.riskDataRepository.GetRiskData(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list risk data", zap.Error(err))
		return nil, 0, err
	}
	return data, total, nil
}

func (s *RiskDataService) FindRiskData(ctx context.Context, id int64) (*entities.RiskData, error) {
	return s.riskDataRepository.FindRiskData(ctx, id)
}

func (s *RiskDataService) CreateRiskData(ctx context.Context, payload dto.CreateRiskDataDTO) (*entities.RiskData, error) {
	record, err := s.riskDataRepository.CreateRiskData(ctx, payload)
	if err != nil {
		s.logger.Error("failed to create risk data", zap.Error(err))
		return nil, err
	}
	return record, nil
}

func (s *RiskDataService) UpdateRiskData(ctx context.Context, id int64, payload dto.UpdateRiskDataDTO) (*entities.RiskData, error) {
	record, err := s.riskDataRepository.UpdateRiskData(ctx, id, payload)
	if err != nil {
		s.logger.Error("failed to update risk data", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return record, nil
}

func (s *RiskDataService) DeleteRiskData(ctx context.Context, id int64) error {
	err := s.riskDataRepository.DeleteRiskData(ctx, id)
	if err != nil {
		s.logger.Error("failed to delete risk data", zap.Int64("id", id), zap.Error(err))
	}
	return err
}
