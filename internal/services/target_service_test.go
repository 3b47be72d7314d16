package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"capability-dashboard/internal/dto"
	"capability-dashboard/internal/entities"
	apperrors "capability-dashboard/pkg/errors"
	"capability-dashboard/pkg/types"
)

type fakeDepartmentRepo struct {
	departments map[string]*entities.Department
}

func (f *fakeDepartmentRepo) GetDepartments(ctx context.Context, filter types.Filter) ([]entities.Department, uint64, error) {
	return nil, 0, nil
}

func (f *fakeDepartmentRepo) FindDepartment(ctx context.Context, id string) (*entities.Department, error) {
	if dept, ok := f.departments[id]; ok {
		return dept, nil
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeDepartmentRepo) CreateDepartment(ctx context.Context, department entities.Department) (*entities.Department, error) {
	return &department, nil
}

func (f *fakeDepartmentRepo) UpdateDepartment(ctx context.Context, id string, payload dto.UpdateDepartmentDTO) (*entities.Department, error) {
	return nil, nil
}

func (f *fakeDepartmentRepo) SaveDepartment(ctx context.Context, tx pgx.Tx, department entities.Department) error {
	return nil
}

func (f *fakeDepartmentRepo) DeleteDepartment(ctx context.Context, id string) error { return nil }

func (f *fakeDepartmentRepo) ListDepartmentIDs(ctx context.Context) (map[string]struct{}, error) {
	ids := make(map[string]struct{}, len(f.departments))
	for id := range f.departments {
		ids[id] = struct{}{}
	}
	return ids, nil
}

func TestCreateTarget(t *testing.T) {
	targetRepo := &fakeTargetRepo{}
	deptRepo := &fakeDepartmentRepo{departments: map[string]*entities.Department{
		"MRK": {ID: "MRK", Description: "Manajemen Risiko"},
	}}
	svc := NewTargetService(targetRepo, deptRepo, zap.NewNop())

	target, err := svc.CreateTarget(context.Background(), dto.CreateTargetDTO{
		DepartmentID:        "MRK",
		Year:                2025,
		CertificationTarget: 4,
		LearningHoursTarget: 120,
	})
	require.NoError(t, err)

	assert.Equal(t, "MRK", target.DepartmentID)
	assert.Equal(t, 2025, target.Year)
	assert.Equal(t, 120, target.LearningHoursTarget)
	require.NotNil(t, targetRepo.created)
	assert.Equal(t, 4, targetRepo.created.CertificationTarget)
}

func TestCreateTargetUnknownDepartment(t *testing.T) {
	svc := NewTargetService(&fakeTargetRepo{}, &fakeDepartmentRepo{}, zap.NewNop())

	_, err := svc.CreateTarget(context.Background(), dto.CreateTargetDTO{
		DepartmentID: "NOPE",
		Year:         2025,
	})
	require.Error(t, err)

	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}

func TestCreateTargetDuplicateYearConflicts(t *testing.T) {
	targetRepo := &fakeTargetRepo{
		existing: &entities.Target{ID: 7, DepartmentID: "MRK", Year: 2025},
	}
	deptRepo := &fakeDepartmentRepo{departments: map[string]*entities.Department{
		"MRK": {ID: "MRK"},
	}}
	svc := NewTargetService(targetRepo, deptRepo, zap.NewNop())

	_, err := svc.CreateTarget(context.Background(), dto.CreateTargetDTO{
		DepartmentID: "MRK",
		Year:         2025,
	})
	require.Error(t, err)
	assert.Nil(t, targetRepo.created)

	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.ErrorIs(t, httpErr.Err, apperrors.ErrConflict)

	// Same department, different year is fine.
	_, err = svc.CreateTarget(context.Background(), dto.CreateTargetDTO{
		DepartmentID: "MRK",
		Year:         2026,
	})
	require.NoError(t, err)
}
