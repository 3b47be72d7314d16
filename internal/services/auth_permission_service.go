package services

import (
	"context"
	"encoding/json"
	"time"

	"capability-dashboard/internal/authz"
	"capability-dashboard/internal/repositories"
	"capability-dashboard/pkg/middleware"

	"go.uber.org/zap"
)

const permissionCacheTTL = 10 * time.Minute

func permissionCacheKey(employeeID string) string {
	return "auth:session:" + employeeID
}

// AuthPermissionService resolves an employee's session (name plus the
// union of granted permissions) for the auth middleware. Results are
// cached in Redis; role and assignment mutations invalidate the keys,
// and the TTL bounds staleness for anything the invalidation misses.
type AuthPermissionService struct {
	employeeRepository repositories.EmployeeRepositoryInterface
	roleRepository     repositories.RoleRepositoryInterface
	cache              repositories.CacheRepositoryInterface
	logger             *zap.Logger
}

func NewAuthPermissionService(
	employeeRepository repositories.EmployeeRepositoryInterface,
	roleRepository repositories.RoleRepositoryInterface,
	cache repositories.CacheRepositoryInterface,
	logger *zap.Logger,
) *AuthPermissionService {
	return &AuthPermissionService{
		employeeRepository: employeeRepository,
		roleRepository:     roleRepository,
		cache:              cache,
		logger:             logger,
	}
}

var _ middleware.PermissionResolver = (*AuthPermissionService)(nil)

func (s *AuthPermissionService) EmployeeSession(ctx context.Context, employeeID string) (*middleware.EmployeeSession, error) {
	key := permissionCacheKey(employeeID)
	if cached, err := s.cache.Get(ctx, key); err == nil && cached != "" {
		var session middleware.EmployeeSession
		if err := json.Unmarshal([]byte(cached), &session); err == nil {
			return &session, nil
		}
		// Unreadable cache entries are rebuilt from the database.
	}

	session, err := s.buildSession(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	if serialized, err := json.Marshal(session); err == nil {
		if err := s.cache.Set(ctx, key, string(serialized), permissionCacheTTL); err != nil {
			s.logger.Warn("failed to cache session", zap.String("employee_id", employeeID), zap.Error(err))
		}
	}
	return session, nil
}

func (s *AuthPermissionService) buildSession(ctx context.Context, employeeID string) (*middleware.EmployeeSession, error) {
	employee, err := s.employeeRepository.FindEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	permissions := make(map[string]bool)
	if employee.IsSuperAdmin {
		permissions[authz.Superuser] = true
		return &middleware.EmployeeSession{Name: employee.Name, Permissions: permissions}, nil
	}

	roles, err := s.roleRepository.FindRolesByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	for i := range roles {
		var names []string
		if err := json.Unmarshal([]byte(roles[i].Permissions), &names); err != nil {
			s.logger.Warn("role has malformed permissions",
				zap.Int64("role_id", roles[i].ID),
				zap.String("role_name", roles[i].RoleName),
				zap.Error(err))
			continue
		}
		for _, name := range names {
			permissions[name] = true
		}
	}
	return &middleware.EmployeeSession{Name: employee.Name, Permissions: permissions}, nil
}

// InvalidateSession drops the cached session of one employee.
func (s *AuthPermissionService) InvalidateSession(ctx context.Context, employeeID string) error {
	return s.cache.Del(ctx, permissionCacheKey(employeeID))
}
