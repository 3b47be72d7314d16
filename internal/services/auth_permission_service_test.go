package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"capability-dashboard/internal/authz"
	"capability-dashboard/internal/entities"
	apperrors "capability-dashboard/pkg/errors"
	"capability-dashboard/pkg/middleware"
)

func newPermissionService(employees *fakeEmployeeRepo, roles *fakeRoleRepo, cache *fakeCache) *AuthPermissionService {
	return NewAuthPermissionService(employees, roles, cache, zap.NewNop())
}

func TestEmployeeSessionUnionsRolePermissions(t *testing.T) {
	employees := &fakeEmployeeRepo{employees: map[string]*entities.Employee{
		"emp-1": {ID: "emp-1", Name: "Ana"},
	}}
	roles := newFakeRoleRepo()
	roles.byEmployee = map[string][]entities.Role{
		"emp-1": {
			{ID: 1, RoleName: "Viewer", Permissions: `["dashboard:view","reports:view"]`},
			{ID: 2, RoleName: "HR Officer", Permissions: `["achievements:view","achievements:create"]`},
		},
	}
	cache := newFakeCache()
	svc := newPermissionService(employees, roles, cache)

	session, err := svc.EmployeeSession(context.Background(), "emp-1")
	require.NoError(t, err)

	assert.Equal(t, "Ana", session.Name)
	assert.True(t, authz.Allowed(session.Permissions, authz.DashboardView))
	assert.True(t, authz.Allowed(session.Permissions, authz.AchievementsCreate))
	assert.False(t, authz.Allowed(session.Permissions, authz.RolesManage))

	// The resolved session lands in the cache.
	cached, err := cache.Get(context.Background(), permissionCacheKey("emp-1"))
	require.NoError(t, err)
	var stored middleware.EmployeeSession
	require.NoError(t, json.Unmarshal([]byte(cached), &stored))
	assert.Equal(t, session.Permissions, stored.Permissions)
}

func TestEmployeeSessionServedFromCache(t *testing.T) {
	// No employee rows at all: a database hit would fail, so a returned
	// session proves the cache answered.
	employees := &fakeEmployeeRepo{}
	cache := newFakeCache()
	cache.values[permissionCacheKey("emp-1")] = `{"name":"Cached","permissions":{"dashboard:view":true}}`
	svc := newPermissionService(employees, newFakeRoleRepo(), cache)

	session, err := svc.EmployeeSession(context.Background(), "emp-1")
	require.NoError(t, err)
	assert.Equal(t, "Cached", session.Name)
	assert.True(t, session.Permissions["dashboard:view"])
}

func TestEmployeeSessionRebuildsUnreadableCacheEntry(t *testing.T) {
	employees := &fakeEmployeeRepo{employees: map[string]*entities.Employee{
		"emp-1": {ID: "emp-1", Name: "Ana", IsSuperAdmin: true},
	}}
	cache := newFakeCache()
	cache.values[permissionCacheKey("emp-1")] = "{corrupt"
	svc := newPermissionService(employees, newFakeRoleRepo(), cache)

	session, err := svc.EmployeeSession(context.Background(), "emp-1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", session.Name)
	assert.True(t, session.Permissions[authz.Superuser])
}

func TestEmployeeSessionSuperAdminShortcut(t *testing.T) {
	employees := &fakeEmployeeRepo{employees: map[string]*entities.Employee{
		"root": {ID: "root", Name: "Admin", IsSuperAdmin: true},
	}}
	// No role rows assigned; superuser alone must grant everything.
	svc := newPermissionService(employees, newFakeRoleRepo(), newFakeCache())

	session, err := svc.EmployeeSession(context.Background(), "root")
	require.NoError(t, err)

	for _, perm := range authz.All {
		assert.True(t, authz.Allowed(session.Permissions, perm), perm)
	}
}

func TestEmployeeSessionSkipsMalformedRole(t *testing.T) {
	employees := &fakeEmployeeRepo{employees: map[string]*entities.Employee{
		"emp-1": {ID: "emp-1", Name: "Ana"},
	}}
	roles := newFakeRoleRepo()
	roles.byEmployee = map[string][]entities.Role{
		"emp-1": {
			{ID: 1, RoleName: "Corrupted", Permissions: "{not json"},
			{ID: 2, RoleName: "Viewer", Permissions: `["dashboard:view"]`},
		},
	}
	svc := newPermissionService(employees, roles, newFakeCache())

	session, err := svc.EmployeeSession(context.Background(), "emp-1")
	require.NoError(t, err)
	assert.True(t, session.Permissions["dashboard:view"])
	assert.Len(t, session.Permissions, 1)
}

func TestEmployeeSessionUnknownEmployee(t *testing.T) {
	svc := newPermissionService(&fakeEmployeeRepo{}, newFakeRoleRepo(), newFakeCache())

	_, err := svc.EmployeeSession(context.Background(), "ghost")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestEmployeeSessionToleratesCacheFailures(t *testing.T) {
	employees := &fakeEmployeeRepo{employees: map[string]*entities.Employee{
		"emp-1": {ID: "emp-1", Name: "Ana"},
	}}
	cache := newFakeCache()
	cache.getErr = errors.New("redis down")
	cache.setErr = errors.New("redis down")
	svc := newPermissionService(employees, newFakeRoleRepo(), cache)

	session, err := svc.EmployeeSession(context.Background(), "emp-1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", session.Name)
}

func TestInvalidateSession(t *testing.T) {
	cache := newFakeCache()
	cache.values[permissionCacheKey("emp-1")] = `{}`
	svc := newPermissionService(&fakeEmployeeRepo{}, newFakeRoleRepo(), cache)

	require.NoError(t, svc.InvalidateSession(context.Background(), "emp-1"))
	assert.NotContains(t, cache.values, permissionCacheKey("emp-1"))
}
