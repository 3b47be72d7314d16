package sync

import (
	"context"
	"testing"

	"capability-dashboard/internal/dto"
	"capability-dashboard/internal/entities"
	apperrors "capability-dashboard/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeDepartmentStore struct {
	ids   map[string]struct{}
	saved []entities.Department
}

func (f *fakeDepartmentStore) ListDepartmentIDs(ctx context.Context) (map[string]struct{}, error) {
	return f.ids, nil
}

func (f *fakeDepartmentStore) SaveDepartment(ctx context.Context, tx pgx.Tx, department entities.Department) error {
	f.saved = append(f.saved, department)
	return nil
}

type fakePositionStore struct {
	ids   map[int64]struct{}
	saved []entities.Position
}

func (f *fakePositionStore) ListPositionIDs(ctx context.Context) (map[int64]struct{}, error) {
	return f.ids, nil
}

func (f *fakePositionStore) SavePosition(ctx context.Context, tx pgx.Tx, position entities.Position) error {
	f.saved = append(f.saved, position)
	return nil
}

type fakeEmployeeStore struct {
	existing map[string]*entities.Employee
	saved    []entities.Employee
}

func (f *fakeEmployeeStore) FindEmployee(ctx context.Context, id string) (*entities.Employee, error) {
	if e, ok := f.existing[id]; ok {
		return e, nil
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeEmployeeStore) SaveEmployee(ctx context.Context, tx pgx.Tx, employee entities.Employee) error {
	f.saved = append(f.saved, employee)
	return nil
}

type fakeTxRunner struct{}

func (fakeTxRunner) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

func newTestHandler(departments *fakeDepartmentStore, positions *fakePositionStore, employees *fakeEmployeeStore) *Handler {
	if departments == nil {
		departments = &fakeDepartmentStore{ids: map[string]struct{}{}}
	}
	if positions == nil {
		positions = &fakePositionStore{ids: map[int64]struct{}{}}
	}
	if employees == nil {
		employees = &fakeEmployeeStore{existing: map[string]*entities.Employee{}}
	}
	return NewHandler(fakeTxRunner{}, departments, positions, employees, zap.NewNop())
}

func strp(s string) *string { return &s }
func i64p(v int64) *int64   { return &v }
func boolp(b bool) *bool    { return &b }

func TestUpsertDepartments(t *testing.T) {
	departments := &fakeDepartmentStore{}
	h := newTestHandler(departments, nil, nil)

	count, err := h.UpsertDepartments(context.Background(), []dto.ExternalDepartmentDTO{
		{DepartmentID: "D01", Deskripsi: "Finance", IsDepartment: "Y"},
		{DepartmentID: "D02", Deskripsi: "Legal Unit", Induk: strp("D01"), IsDepartment: "n"},
		{DepartmentID: "", Deskripsi: "orphan row"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.Len(t, departments.saved, 2)

	assert.True(t, departments.saved[0].IsDepartment)
	assert.False(t, departments.saved[1].IsDepartment)
	require.NotNil(t, departments.saved[1].ParentID)
	assert.Equal(t, "D01", *departments.saved[1].ParentID)
}

func TestUpsertPositionsNullsUnknownDepartment(t *testing.T) {
	departments := &fakeDepartmentStore{ids: map[string]struct{}{"D01": {}}}
	positions := &fakePositionStore{}
	h := newTestHandler(departments, positions, nil)

	count, err := h.UpsertPositions(context.Background(), []dto.ExternalPositionDTO{
		{JabatanID: 10, Deskripsi: "Manager", Department: strp("D01"), IsManager: true},
		{JabatanID: 11, Deskripsi: "Officer", Department: strp("GONE")},
		{JabatanID: 0, Deskripsi: "no id"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.Len(t, positions.saved, 2)

	require.NotNil(t, positions.saved[0].DepartmentID)
	assert.Equal(t, "D01", *positions.saved[0].DepartmentID)
	assert.True(t, positions.saved[0].IsManager)
	assert.Nil(t, positions.saved[1].DepartmentID)
}

func TestUpsertEmployeesSkipsSuperAdmins(t *testing.T) {
	employees := &fakeEmployeeStore{existing: map[string]*entities.Employee{
		"emp-1": {ID: "emp-1", Name: "Local Admin", IsSuperAdmin: true},
	}}
	h := newTestHandler(nil, nil, employees)

	count, err := h.UpsertEmployees(context.Background(), []dto.ExternalEmployeeDTO{
		{ID: "emp-1", Name: "Should Be Skipped", Email: "a@x.co", UserName: "a"},
		{ID: "emp-2", Name: "Regular", Email: "b@x.co", UserName: "b"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	require.Len(t, employees.saved, 1)
	assert.Equal(t, "emp-2", employees.saved[0].ID)
}

func TestUpsertEmployeesNeverGrantsSuperAdmin(t *testing.T) {
	employees := &fakeEmployeeStore{existing: map[string]*entities.Employee{}}
	h := newTestHandler(nil, nil, employees)

	_, err := h.UpsertEmployees(context.Background(), []dto.ExternalEmployeeDTO{
		{ID: "emp-9", Name: "Upstream Admin", Email: "c@x.co", UserName: "c"},
	})
	require.NoError(t, err)
	require.Len(t, employees.saved, 1)
	assert.False(t, employees.saved[0].IsSuperAdmin)
}

func TestUpsertEmployeesResolvesReferences(t *testing.T) {
	departments := &fakeDepartmentStore{ids: map[string]struct{}{"D01": {}}}
	positions := &fakePositionStore{ids: map[int64]struct{}{10: {}}}
	employees := &fakeEmployeeStore{existing: map[string]*entities.Employee{}}
	h := newTestHandler(departments, positions, employees)

	count, err := h.UpsertEmployees(context.Background(), []dto.ExternalEmployeeDTO{
		{ID: "emp-1", Name: "A", Email: "a@x.co", UserName: "a", Department: strp("D01"), Jabatan: i64p(10)},
		{ID: "emp-2", Name: "B", Email: "b@x.co", UserName: "b", Department: strp("GONE"), Jabatan: i64p(999)},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.Len(t, employees.saved, 2)

	require.NotNil(t, employees.saved[0].DepartmentID)
	assert.Equal(t, "D01", *employees.saved[0].DepartmentID)
	require.NotNil(t, employees.saved[0].PositionID)
	assert.Equal(t, int64(10), *employees.saved[0].PositionID)

	// Dangling references are stored as NULL, not rejected.
	assert.Nil(t, employees.saved[1].DepartmentID)
	assert.Nil(t, employees.saved[1].PositionID)
}

func TestUpsertEmployeesLockoutDefaultsTrue(t *testing.T) {
	employees := &fakeEmployeeStore{existing: map[string]*entities.Employee{}}
	h := newTestHandler(nil, nil, employees)

	_, err := h.UpsertEmployees(context.Background(), []dto.ExternalEmployeeDTO{
		{ID: "emp-1", Name: "A", Email: "a@x.co", UserName: "a"},
		{ID: "emp-2", Name: "B", Email: "b@x.co", UserName: "b", LockoutEnabled: boolp(false)},
	})
	require.NoError(t, err)
	require.Len(t, employees.saved, 2)
	assert.True(t, employees.saved[0].LockoutEnabled)
	assert.False(t, employees.saved[1].LockoutEnabled)
}
