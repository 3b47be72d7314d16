package services

import (
	"context"
	"encoding/json"
	"fmt"

	"capability-dashboard/internal/authz"
	"capability-dashboard/internal/dto"
	"capability-dashboard/internal/entities"
	"capability-dashboard/internal/repositories"
	apperrors "capability-dashboard/pkg/errors"
	"capability-dashboard/pkg/types"

	"go.uber.org/zap"
)

type RoleService struct {
	roleRepository     repositories.RoleRepositoryInterface
	userRoleRepository repositories.UserRoleRepositoryInterface
	cache              repositories.CacheRepositoryInterface
	logger             *zap.Logger
}

func NewRoleService(
	roleRepository repositories.RoleRepositoryInterface,
	userRoleRepository repositories.UserRoleRepositoryInterface,
	cache repositories.CacheRepositoryInterface,
	logger *zap.Logger,
) *RoleService {
	return &RoleService{
		roleRepository:     roleRepository,
		userRoleRepository: userRoleRepository,
		cache:              cache,
		logger:             logger,
	}
}

func (s *RoleService) GetRoles(ctx context.Context, filter types.Filter) ([]dto.RoleResponseDTO, uint64, error) {
	roles, total, err := s.roleRepository.GetRoles(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list roles", zap.Error(err))
		return nil, 0, err
	}
	out := make([]dto.RoleResponseDTO, 0, len(roles))
	for i := range roles {
		out = append(out, toRoleResponse(&roles[i]))
	}
	return out, total, nil
}

func (s *RoleService) FindRole(ctx context.Context, id int64) (*dto.RoleResponseDTO, error) {
	role, err := s.roleRepository.FindRole(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toRoleResponse(role)
	return &resp, nil
}

func (s *RoleService) ListPermissions() []string {
	return authz.All
}

func (s *RoleService) CreateRole(ctx context.Context, payload dto.CreateRoleDTO) (*dto.RoleResponseDTO, error) {
	if err := validatePermissions(payload.Permissions); err != nil {
		return nil, err
	}
	serialized, err := json.Marshal(payload.Permissions)
	if err != nil {
		return nil, err
	}

	role, err := s.roleRepository.CreateRole(ctx, entities.Role{
		RoleName:    payload.RoleName,
		Permissions: string(serialized),
		Description: payload.Description.Ptr(),
	})
	if err != nil {
		s.logger.Error("failed to create role", zap.String("role_name", payload.RoleName), zap.Error(err))
		return nil, err
	}
	resp := toRoleResponse(role)
	return &resp, nil
}

func (s *RoleService) UpdateRole(ctx context.Context, id int64, payload dto.UpdateRoleDTO) (*dto.RoleResponseDTO, error) {
	var permissions *string
	if payload.Permissions != nil {
		if err := validatePermissions(payload.Permissions); err != nil {
			return nil, err
		}
		serialized, err := json.Marshal(payload.Permissions)
		if err != nil {
			return nil, err
		}
		str := string(serialized)
		permissions = &str
	}

	var description *string
	if payload.Description.Valid {
		description = payload.Description.Ptr()
	}

	role, err := s.roleRepository.UpdateRole(ctx, id, payload.RoleName, permissions, description)
	if err != nil {
		s.logger.Error("failed to update role", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	s.invalidateRoleHolders(ctx, id)
	resp := toRoleResponse(role)
	return &resp, nil
}

func (s *RoleService) DeleteRole(ctx context.Context, id int64) error {
	// Collect holders before the delete cascades the assignments away.
	s.invalidateRoleHolders(ctx, id)
	err := s.roleRepository.DeleteRole(ctx, id)
	if err != nil {
		s.logger.Error("failed to delete role", zap.Int64("id", id), zap.Error(err))
	}
	return err
}

// invalidateRoleHolders drops the cached permission set of every
// employee holding the role. Failures only shorten cache freshness, so
// they are logged and swallowed.
func (s *RoleService) invalidateRoleHolders(ctx context.Context, roleID int64) {
	employeeIDs, err := s.userRoleRepository.ListEmployeeIDsByRole(ctx, roleID)
	if err != nil {
		s.logger.Warn("failed to list role holders for cache invalidation", zap.Int64("role_id", roleID), zap.Error(err))
		return
	}
	if len(employeeIDs) == 0 {
		return
	}
	keys := make([]string, 0, len(employeeIDs))
	for _, id := range employeeIDs {
		keys = append(keys, permissionCacheKey(id))
	}
	if err := s.cache.Del(ctx, keys...); err != nil {
		s.logger.Warn("failed to drop cached permissions", zap.Int64("role_id", roleID), zap.Error(err))
	}
}

func validatePermissions(permissions []string) error {
	known := make(map[string]struct{}, len(authz.All))
	for _, p := range authz.All {
		known[p] = struct{}{}
	}
	for _, p := range permissions {
		if _, ok := known[p]; !ok {
			return apperrors.NewBadRequestError(fmt.Sprintf("unknown permission %q", p), nil)
		}
	}
	return nil
}

func toRoleResponse(role *entities.Role) dto.RoleResponseDTO {
	resp := dto.RoleResponseDTO{
		ID:          role.ID,
		RoleName:    role.RoleName,
		Permissions: []string{},
		Description: role.Description,
	}
	if role.Permissions != "" {
		// Malformed rows grant nothing rather than failing the list.
		_ = json.Unmarshal([]byte(role.Permissions), &resp.Permissions)
	}
	return resp
}
