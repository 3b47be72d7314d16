package services

import (
	"context"
	"sort"

	"capability-dashboard/internal/dto"
	"capability-dashboard/internal/extapi"
	"capability-dashboard/internal/repositories"
	apperrors "capability-dashboard/pkg/errors"
	"capability-dashboard/pkg/service"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	employeeRepository   repositories.EmployeeRepositoryInterface
	departmentRepository repositories.DepartmentRepositoryInterface
	positionRepository   repositories.PositionRepositoryInterface
	extClient            extapi.ClientInterface
	permissionService    *AuthPermissionService
	jwtService           service.JWTService
	logger               *zap.Logger
}

func NewAuthService(
	employeeRepository repositories.EmployeeRepositoryInterface,
	departmentRepository repositories.DepartmentRepositoryInterface,
	positionRepository repositories.PositionRepositoryInterface,
	extClient extapi.ClientInterface,
	permissionService *AuthPermissionService,
	jwtService service.JWTService,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		employeeRepository:   employeeRepository,
		departmentRepository: departmentRepository,
		positionRepository:   positionRepository,
		extClient:            extClient,
		permissionService:    permissionService,
		jwtService:           jwtService,
		logger:               logger,
	}
}

// Login verifies credentials against the upstream HR system first. When
// upstream rejects or is unreachable, a locally stored bcrypt hash (set
// for seeded admin accounts) is tried before giving up. Either path must
// resolve to a synced employee record.
func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*dto.TokenPairDTO, error) {
	employee, err := s.employeeRepository.FindEmployeeByLogin(ctx, payload.UserName)
	if err != nil {
		return nil, apperrors.NewNotFoundError("employee not found")
	}

	if extErr := s.extClient.VerifyCredentials(ctx, payload.UserName, payload.Password); extErr != nil {
		if !s.verifyLocalPassword(employee.PasswordHash, payload.Password) {
			s.logger.Warn("login rejected",
				zap.String("employee_id", employee.ID),
				zap.Error(extErr))
			return nil, apperrors.ErrInvalidCredentials
		}
	}

	access, refresh, err := s.jwtService.GenerateTokens(employee.ID)
	if err != nil {
		s.logger.Error("failed to generate tokens", zap.String("employee_id", employee.ID), zap.Error(err))
		return nil, err
	}
	s.logger.Info("employee logged in", zap.String("employee_id", employee.ID))
	return &dto.TokenPairDTO{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) verifyLocalPassword(hash *string, password string) bool {
	if hash == nil || *hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(*hash), []byte(password)) == nil
}

func (s *AuthService) RefreshToken(ctx context.Context, payload dto.RefreshTokenDTO) (*dto.TokenPairDTO, error) {
	claims, err := s.jwtService.ValidateToken(payload.RefreshToken)
	if err != nil {
		return nil, err
	}
	if !claims.IsRefreshToken {
		return nil, apperrors.ErrInvalidToken
	}
	// The employee may have been removed by a sync since the token was
	// issued.
	if _, err := s.employeeRepository.FindEmployee(ctx, claims.EmployeeID); err != nil {
		return nil, apperrors.ErrUnauthorized
	}

	access, refresh, err := s.jwtService.GenerateTokens(claims.EmployeeID)
	if err != nil {
		return nil, err
	}
	return &dto.TokenPairDTO{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) GetProfile(ctx context.Context, employeeID string) (*dto.ProfileDTO, error) {
	employee, err := s.employeeRepository.FindEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	profile := &dto.ProfileDTO{
		ID:          employee.ID,
		Name:        employee.Name,
		Email:       employee.Email,
		UserName:    employee.UserName,
		Permissions: []string{},
	}
	if employee.DepartmentID != nil {
		if department, err := s.departmentRepository.FindDepartment(ctx, *employee.DepartmentID); err == nil {
			profile.Department = &department.Description
		}
	}
	if employee.PositionID != nil {
		if position, err := s.positionRepository.FindPosition(ctx, *employee.PositionID); err == nil {
			profile.Position = &position.Description
		}
	}

	session, err := s.permissionService.EmployeeSession(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	for name, granted := range session.Permissions {
		if granted {
			profile.Permissions = append(profile.Permissions, name)
		}
	}
	sort.Strings(profile.Permissions)
	return profile, nil
}
