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

type UserRoleService struct {
	userRoleRepository repositories.UserRoleRepositoryInterface
	roleRepository     repositories.RoleRepositoryInterface
	employeeRepository repositories.EmployeeRepositoryInterface
	cache              repositories.CacheRepositoryInterface
	logger             *zap.Logger
}

func NewUserRoleService(
	userRoleRepository repositories.UserRoleRepositoryInterface,
	roleRepository repositories.RoleRepositoryInterface,
	employeeRepository repositories.EmployeeRepositoryInterface,
	cache repositories.CacheRepositoryInterface,
	logger *zap.Logger,
) *UserRoleService {
	return &UserRoleService{
		userRoleRepository: userRoleRepository,
		roleRepository:     roleRepository,
		employeeRepository: employeeRepository,
		cache:              cache,
		logger:             logger,
	}
}

func (s *UserRoleService) GetUserRoles(ctx context.Context, filter types.Filter) ([]entities.UserRoleWithNames, uint64, error) {
	assignments, total, err := s.userRoleRepository.GetUserRoles(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list role assignments", zap.Error(err))
		return nil, 0, err
	}
	return assignments, total, nil
}

func (s *UserRoleService) AssignRole(ctx context.Context, payload dto.AssignRoleDTO) (*entities.UserRole, error) {
	if _, err := s.employeeRepository.FindEmployee(ctx, payload.EmployeeID); err != nil {
		return nil, apperrors.NewNotFoundError("employee not found")
	}
	if _, err := s.roleRepository.FindRole(ctx, payload.RoleID); err != nil {
		return nil, apperrors.NewNotFoundError("role not found")
	}
	exists, err := s.userRoleRepository.AssignmentExists(ctx, payload.EmployeeID, payload.RoleID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewConflictError("employee already has this role")
	}

	assignment, err := s.userRoleRepository.AssignRole(ctx, payload.EmployeeID, payload.RoleID)
	if err != nil {
		s.logger.Error("failed to assign role",
			zap.String("employee_id", payload.EmployeeID),
			zap.Int64("role_id", payload.RoleID),
			zap.Error(err))
		return nil, err
	}

	s.dropCachedPermissions(ctx, payload.EmployeeID)
	return assignment, nil
}

func (s *UserRoleService) RemoveAssignment(ctx context.Context, id int64) error {
	employeeID, err := s.userRoleRepository.RemoveAssignment(ctx, id)
	if err != nil {
		return err
	}
	s.dropCachedPermissions(ctx, employeeID)
	return nil
}

func (s *UserRoleService) dropCachedPermissions(ctx context.Context, employeeID string) {
	if err := s.cache.Del(ctx, permissionCacheKey(employeeID)); err != nil {
		s.logger.Warn("failed to drop cached permissions", zap.String("employee_id", employeeID), zap.Error(err))
	}
}
