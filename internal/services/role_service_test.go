package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"capability-dashboard/internal/authz"
	"capability-dashboard/internal/dto"
	"capability-dashboard/internal/entities"
	apperrors "capability-dashboard/pkg/errors"
	"capability-dashboard/pkg/types"
)

type fakeRoleRepo struct {
	roles  map[int64]*entities.Role
	nextID int64

	byEmployee map[string][]entities.Role
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{roles: map[int64]*entities.Role{}, nextID: 1}
}

func (f *fakeRoleRepo) GetRoles(ctx context.Context, filter types.Filter) ([]entities.Role, uint64, error) {
	out := make([]entities.Role, 0, len(f.roles))
	for _, role := range f.roles {
		out = append(out, *role)
	}
	return out, uint64(len(out)), nil
}

func (f *fakeRoleRepo) FindRole(ctx context.Context, id int64) (*entities.Role, error) {
	if role, ok := f.roles[id]; ok {
		return role, nil
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeRoleRepo) CreateRole(ctx context.Context, role entities.Role) (*entities.Role, error) {
	role.ID = f.nextID
	f.nextID++
	f.roles[role.ID] = &role
	return &role, nil
}

func (f *fakeRoleRepo) UpdateRole(ctx context.Context, id int64, roleName *string, permissions *string, description *string) (*entities.Role, error) {
	role, ok := f.roles[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if roleName != nil {
		role.RoleName = *roleName
	}
	if permissions != nil {
		role.Permissions = *permissions
	}
	if description != nil {
		role.Description = description
	}
	return role, nil
}

func (f *fakeRoleRepo) DeleteRole(ctx context.Context, id int64) error {
	if _, ok := f.roles[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(f.roles, id)
	return nil
}

func (f *fakeRoleRepo) FindRolesByEmployee(ctx context.Context, employeeID string) ([]entities.Role, error) {
	return f.byEmployee[employeeID], nil
}

type fakeUserRoleRepo struct {
	holders     map[int64][]string
	assignments map[int64]string
	nextID      int64
}

func newFakeUserRoleRepo() *fakeUserRoleRepo {
	return &fakeUserRoleRepo{holders: map[int64][]string{}, assignments: map[int64]string{}, nextID: 1}
}

func (f *fakeUserRoleRepo) GetUserRoles(ctx context.Context, filter types.Filter) ([]entities.UserRoleWithNames, uint64, error) {
	return nil, 0, nil
}

func (f *fakeUserRoleRepo) AssignRole(ctx context.Context, employeeID string, roleID int64) (*entities.UserRole, error) {
	id := f.nextID
	f.nextID++
	f.holders[roleID] = append(f.holders[roleID], employeeID)
	f.assignments[id] = employeeID
	return &entities.UserRole{ID: id, EmployeeID: employeeID, RoleID: roleID}, nil
}

func (f *fakeUserRoleRepo) RemoveAssignment(ctx context.Context, id int64) (string, error) {
	employeeID, ok := f.assignments[id]
	if !ok {
		return "", apperrors.ErrNotFound
	}
	delete(f.assignments, id)
	return employeeID, nil
}

func (f *fakeUserRoleRepo) AssignmentExists(ctx context.Context, employeeID string, roleID int64) (bool, error) {
	for _, holder := range f.holders[roleID] {
		if holder == employeeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRoleRepo) ListEmployeeIDsByRole(ctx context.Context, roleID int64) ([]string, error) {
	return f.holders[roleID], nil
}

type fakeCache struct {
	values  map[string]string
	deleted []string

	getErr error
	setErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string]string{}}
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.values[key] = value.(string)
	return nil
}

func (f *fakeCache) Get(ctx context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	return f.values[key], nil
}

func (f *fakeCache) Del(ctx context.Context, key ...string) error {
	for _, k := range key {
		delete(f.values, k)
		f.deleted = append(f.deleted, k)
	}
	return nil
}

type fakeEmployeeRepo struct {
	employees map[string]*entities.Employee
}

func (f *fakeEmployeeRepo) GetEmployees(ctx context.Context, filter types.Filter) ([]entities.Employee, uint64, error) {
	return nil, 0, nil
}

func (f *fakeEmployeeRepo) FindEmployee(ctx context.Context, id string) (*entities.Employee, error) {
	if emp, ok := f.employees[id]; ok {
		return emp, nil
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeEmployeeRepo) FindEmployeeByLogin(ctx context.Context, login string) (*entities.Employee, error) {
	for _, emp := range f.employees {
		if emp.Email == login || emp.UserName == login {
			return emp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeEmployeeRepo) CreateEmployee(ctx context.Context, payload dto.CreateEmployeeDTO) (*entities.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepo) UpdateEmployee(ctx context.Context, id string, payload dto.UpdateEmployeeDTO) (*entities.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepo) SaveEmployee(ctx context.Context, tx pgx.Tx, employee entities.Employee) error {
	return nil
}

func (f *fakeEmployeeRepo) DeleteEmployee(ctx context.Context, id string) error { return nil }

func newRoleService(roles *fakeRoleRepo, userRoles *fakeUserRoleRepo, cache *fakeCache) *RoleService {
	return NewRoleService(roles, userRoles, cache, zap.NewNop())
}

func TestCreateRoleSerializesPermissions(t *testing.T) {
	repo := newFakeRoleRepo()
	svc := newRoleService(repo, newFakeUserRoleRepo(), newFakeCache())

	created, err := svc.CreateRole(context.Background(), dto.CreateRoleDTO{
		RoleName:    "HR Officer",
		Permissions: []string{authz.DashboardView, authz.AchievementsView, authz.AchievementsCreate},
	})
	require.NoError(t, err)

	assert.Equal(t, "HR Officer", created.RoleName)
	assert.Equal(t, []string{authz.DashboardView, authz.AchievementsView, authz.AchievementsCreate}, created.Permissions)

	stored, err := repo.FindRole(context.Background(), created.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `["dashboard:view","achievements:view","achievements:create"]`, stored.Permissions)
}

func TestCreateRoleRejectsUnknownPermission(t *testing.T) {
	svc := newRoleService(newFakeRoleRepo(), newFakeUserRoleRepo(), newFakeCache())

	_, err := svc.CreateRole(context.Background(), dto.CreateRoleDTO{
		RoleName:    "Broken",
		Permissions: []string{authz.DashboardView, "reports:delete"},
	})
	require.Error(t, err)

	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	assert.Contains(t, httpErr.Message, `"reports:delete"`)
}

func TestUpdateRoleInvalidatesHolderSessions(t *testing.T) {
	repo := newFakeRoleRepo()
	userRoles := newFakeUserRoleRepo()
	cache := newFakeCache()
	svc := newRoleService(repo, userRoles, cache)

	created, err := svc.CreateRole(context.Background(), dto.CreateRoleDTO{
		RoleName:    "Viewer",
		Permissions: []string{authz.DashboardView},
	})
	require.NoError(t, err)

	_, err = userRoles.AssignRole(context.Background(), "emp-1", created.ID)
	require.NoError(t, err)
	_, err = userRoles.AssignRole(context.Background(), "emp-2", created.ID)
	require.NoError(t, err)
	cache.values[permissionCacheKey("emp-1")] = `{"name":"A","permissions":{"dashboard:view":true}}`
	cache.values[permissionCacheKey("emp-2")] = `{"name":"B","permissions":{"dashboard:view":true}}`

	_, err = svc.UpdateRole(context.Background(), created.ID, dto.UpdateRoleDTO{
		Permissions: []string{authz.DashboardView, authz.ReportsView},
	})
	require.NoError(t, err)

	assert.NotContains(t, cache.values, permissionCacheKey("emp-1"))
	assert.NotContains(t, cache.values, permissionCacheKey("emp-2"))
}

func TestDeleteRoleInvalidatesBeforeDelete(t *testing.T) {
	repo := newFakeRoleRepo()
	userRoles := newFakeUserRoleRepo()
	cache := newFakeCache()
	svc := newRoleService(repo, userRoles, cache)

	created, err := svc.CreateRole(context.Background(), dto.CreateRoleDTO{
		RoleName:    "Viewer",
		Permissions: []string{authz.DashboardView},
	})
	require.NoError(t, err)
	_, err = userRoles.AssignRole(context.Background(), "emp-9", created.ID)
	require.NoError(t, err)
	cache.values[permissionCacheKey("emp-9")] = `{}`

	require.NoError(t, svc.DeleteRole(context.Background(), created.ID))

	assert.Contains(t, cache.deleted, permissionCacheKey("emp-9"))
	_, err = repo.FindRole(context.Background(), created.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRoleResponseToleratesMalformedPermissions(t *testing.T) {
	repo := newFakeRoleRepo()
	repo.roles[5] = &entities.Role{ID: 5, RoleName: "Corrupted", Permissions: "{not json"}
	repo.roles[6] = &entities.Role{ID: 6, RoleName: "Empty"}
	svc := newRoleService(repo, newFakeUserRoleRepo(), newFakeCache())

	corrupted, err := svc.FindRole(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, corrupted.Permissions)

	empty, err := svc.FindRole(context.Background(), 6)
	require.NoError(t, err)
	assert.NotNil(t, empty.Permissions)
	assert.Empty(t, empty.Permissions)
}

func TestListPermissions(t *testing.T) {
	svc := newRoleService(newFakeRoleRepo(), newFakeUserRoleRepo(), newFakeCache())

	perms := svc.ListPermissions()
	assert.Equal(t, authz.All, perms)
	assert.Contains(t, perms, authz.Superuser)
}

func TestAssignRole(t *testing.T) {
	userRoles := newFakeUserRoleRepo()
	roles := newFakeRoleRepo()
	roles.roles[1] = &entities.Role{ID: 1, RoleName: "Viewer", Permissions: "[]"}
	employees := &fakeEmployeeRepo{employees: map[string]*entities.Employee{
		"emp-1": {ID: "emp-1", Name: "Ana"},
	}}
	cache := newFakeCache()
	cache.values[permissionCacheKey("emp-1")] = `{}`
	svc := NewUserRoleService(userRoles, roles, employees, cache, zap.NewNop())

	assignment, err := svc.AssignRole(context.Background(), dto.AssignRoleDTO{EmployeeID: "emp-1", RoleID: 1})
	require.NoError(t, err)
	assert.Equal(t, "emp-1", assignment.EmployeeID)
	assert.NotContains(t, cache.values, permissionCacheKey("emp-1"))

	// Assigning the same role twice is a conflict.
	_, err = svc.AssignRole(context.Background(), dto.AssignRoleDTO{EmployeeID: "emp-1", RoleID: 1})
	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.ErrorIs(t, httpErr.Err, apperrors.ErrConflict)

	// Unknown employee and unknown role both surface as not found.
	_, err = svc.AssignRole(context.Background(), dto.AssignRoleDTO{EmployeeID: "ghost", RoleID: 1})
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)

	_, err = svc.AssignRole(context.Background(), dto.AssignRoleDTO{EmployeeID: "emp-1", RoleID: 99})
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}

func TestRemoveAssignmentDropsCachedPermissions(t *testing.T) {
	userRoles := newFakeUserRoleRepo()
	roles := newFakeRoleRepo()
	roles.roles[1] = &entities.Role{ID: 1, RoleName: "Viewer", Permissions: "[]"}
	employees := &fakeEmployeeRepo{employees: map[string]*entities.Employee{
		"emp-1": {ID: "emp-1", Name: "Ana"},
	}}
	cache := newFakeCache()
	svc := NewUserRoleService(userRoles, roles, employees, cache, zap.NewNop())

	assignment, err := svc.AssignRole(context.Background(), dto.AssignRoleDTO{EmployeeID: "emp-1", RoleID: 1})
	require.NoError(t, err)

	cache.values[permissionCacheKey("emp-1")] = `{}`
	require.NoError(t, svc.RemoveAssignment(context.Background(), assignment.ID))
	assert.NotContains(t, cache.values, permissionCacheKey("emp-1"))

	assert.ErrorIs(t, svc.RemoveAssignment(context.Background(), assignment.ID), apperrors.ErrNotFound)
}
