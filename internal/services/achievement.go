package services

import (
	"context"

	"capability-dashboard/internal/dto"
	"capability-dashboard/internal/entities"
	"capability-dashboard/internal/repositories"
	apperrors "capability-dashboard/pkg/errors"
	"capability-dashboard/pkg/types"
	"capability-dashboard/pkg/utils"

	"go.uber.org/zap"
)

type AchievementService struct {
	achievementRepository repositories.AchievementRepositoryInterface
	employeeRepository    repositories.EmployeeRepositoryInterface
	logger                *zap.Logger
}

func NewAchievementService(
	achievementRepository repositories.AchievementRepositoryInterface,
	employeeRepository repositories.EmployeeRepositoryInterface,
	logger *zap.Logger,
) *AchievementService {
	return &AchievementService{
		achievementRepository: achievementRepository,
		employeeRepository:    employeeRepository,
		logger:                logger,
	}
}

func (s *AchievementService) GetAchievements(ctx context.Context, filter types.Filter) ([]entities.AchievementWithEmployee, uint64, error) {
	achievements, total, err := s.achievementRepository.GetAchievements(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list achievements", zap.Error(err))
		return nil, 0, err
	}
	return achievements, total, nil
}

func (s *AchievementService) FindAchievement(ctx context.Context, id int64) (*entities.Achievement, error) {
	return s.achievementRepository.FindAchievement(ctx, id)
}

// CreateAchievement validates the type-specific rules before persisting:
// learning hours need a positive value, certifications need an expiry
// date. The session identity is captured as input_by metadata.
func (s *AchievementService) CreateAchievement(ctx context.Context, payload dto.CreateAchievementDTO) (*entities.Achievement, error) {
	if payload.Type == entities.AchievementTypeCertification && !payload.ValidUntil.Valid {
		return nil, apperrors.NewBadRequestError("certifications require a valid_until date", nil)
	}
	if _, err := s.employeeRepository.FindEmployee(ctx, payload.EmployeeID); err != nil {
		return nil, apperrors.NewNotFoundError("employee not found")
	}

	achievement := entities.Achievement{
		Topic:      payload.Topic,
		Type:       payload.Type,
		Value:      payload.Value,
		Organizer:  payload.Organizer.Ptr(),
		EmployeeID: payload.EmployeeID,
		DateStart:  payload.DateStart.Ptr(),
		DateEnd:    payload.DateEnd.Ptr(),
		ValidUntil: payload.ValidUntil.Ptr(),
	}
	if actorID, err := utils.GetEmployeeIDFromCtx(ctx); err == nil {
		achievement.InputByID = &actorID
	}
	if actorName := utils.GetEmployeeNameFromCtx(ctx); actorName != "" {
		achievement.InputByName = &actorName
	}

	created, err := s.achievementRepository.CreateAchievement(ctx, achievement)
	if err != nil {
		s.logger.Error("failed to create achievement", zap.Error(err))
		return nil, err
	}
	s.logger.Info("achievement created",
		zap.Int64("id", created.ID),
		zap.Int("type", created.Type),
		zap.String("employee_id", created.EmployeeID))
	return created, nil
}

func (s *AchievementService) UpdateAchievement(ctx context.Context, id int64, payload dto.UpdateAchievementDTO) (*entities.Achievement, error) {
	if payload.EmployeeID != nil {
		if _, err := s.employeeRepository.FindEmployee(ctx, *payload.EmployeeID); err != nil {
			return nil, apperrors.NewNotFoundError("employee not found")
		}
	}
	achievement, err := s.achievementRepository.UpdateAchievement(ctx, id, payload)
	if err != nil {
		s.logger.Error("failed to update achievement", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return achievement, nil
}

func (s *AchievementService) DeleteAchievement(ctx context.Context, id int64) error {
	err := s.achievementRepository.DeleteAchievement(ctx, id)
	if err != nil {
		s.logger.Error("failed to delete achievement", zap.Int64("id", id), zap.Error(err))
	}
	return err
}
