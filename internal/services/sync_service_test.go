package services

import (
	"context"
	"errors"
	"testing"

	"capability-dashboard/internal/dto"
	"capability-dashboard/internal/entities"
	apperrors "capability-dashboard/pkg/errors"
	"capability-dashboard/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeExtClient struct {
	departments []dto.ExternalDepartmentDTO
	positions   []dto.ExternalPositionDTO
	employees   []dto.ExternalEmployeeDTO

	departmentsErr error
	positionsErr   error
	employeesErr   error
	connectionErr  error
}

func (f *fakeExtClient) Authenticate(ctx context.Context) (string, error) { return "tok", nil }

func (f *fakeExtClient) VerifyCredentials(ctx context.Context, username, password string) error {
	return nil
}

func (f *fakeExtClient) FetchDepartments(ctx context.Context) ([]dto.ExternalDepartmentDTO, error) {
	return f.departments, f.departmentsErr
}

func (f *fakeExtClient) FetchPositions(ctx context.Context) ([]dto.ExternalPositionDTO, error) {
	return f.positions, f.positionsErr
}

func (f *fakeExtClient) FetchEmployees(ctx context.Context) ([]dto.ExternalEmployeeDTO, error) {
	return f.employees, f.employeesErr
}

func (f *fakeExtClient) TestConnection(ctx context.Context) error { return f.connectionErr }

type fakeSyncWriter struct {
	employeesErr error
}

func (f *fakeSyncWriter) UpsertDepartments(ctx context.Context, payload []dto.ExternalDepartmentDTO) (int, error) {
	return len(payload), nil
}

func (f *fakeSyncWriter) UpsertPositions(ctx context.Context, payload []dto.ExternalPositionDTO) (int, error) {
	return len(payload), nil
}

func (f *fakeSyncWriter) UpsertEmployees(ctx context.Context, payload []dto.ExternalEmployeeDTO) (int, error) {
	if f.employeesErr != nil {
		return 0, f.employeesErr
	}
	return len(payload), nil
}

type fakeSyncLogRepo struct {
	inserted []entities.SyncLog
}

func (f *fakeSyncLogRepo) InsertSyncLog(ctx context.Context, log entities.SyncLog) (*entities.SyncLog, error) {
	f.inserted = append(f.inserted, log)
	return &log, nil
}

func (f *fakeSyncLogRepo) GetSyncLogs(ctx context.Context, filter types.Filter) ([]entities.SyncLog, uint64, error) {
	return f.inserted, uint64(len(f.inserted)), nil
}

func (f *fakeSyncLogRepo) LastSyncLog(ctx context.Context, syncType string) (*entities.SyncLog, error) {
	if len(f.inserted) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &f.inserted[len(f.inserted)-1], nil
}

func threePhasePayloads() *fakeExtClient {
	return &fakeExtClient{
		departments: []dto.ExternalDepartmentDTO{{DepartmentID: "D01", Deskripsi: "Finance", IsDepartment: "Y"}},
		positions:   []dto.ExternalPositionDTO{{JabatanID: 10, Deskripsi: "Manager"}, {JabatanID: 11, Deskripsi: "Officer"}},
		employees:   []dto.ExternalEmployeeDTO{{ID: "emp-1", Name: "A", Email: "a@x.co", UserName: "a"}},
	}
}

func TestSyncAllSuccess(t *testing.T) {
	client := threePhasePayloads()
	logs := &fakeSyncLogRepo{}
	svc := NewSyncService(client, &fakeSyncWriter{}, logs, zap.NewNop())

	res, err := svc.SyncAll(context.Background(), "Jane Auditor", "10.0.0.1")
	require.NoError(t, err)

	assert.Equal(t, entities.SyncStatusSuccess, res.Status)
	assert.Equal(t, 1, res.DepartmentsCount)
	assert.Equal(t, 2, res.PositionsCount)
	assert.Equal(t, 1, res.EmployeesCount)
	assert.Empty(t, res.ErrorMessage)

	require.Len(t, logs.inserted, 1)
	assert.Equal(t, entities.SyncTypeAll, logs.inserted[0].SyncType)
	assert.Equal(t, "Jane Auditor", logs.inserted[0].SyncedBy)
	require.NotNil(t, logs.inserted[0].SourceIP)
	assert.Equal(t, "10.0.0.1", *logs.inserted[0].SourceIP)
}

func TestSyncAllDepartmentFetchFailureAborts(t *testing.T) {
	client := threePhasePayloads()
	client.departmentsErr = errors.New("upstream down")
	logs := &fakeSyncLogRepo{}
	svc := NewSyncService(client, &fakeSyncWriter{}, logs, zap.NewNop())

	_, err := svc.SyncAll(context.Background(), "", "")
	require.Error(t, err)

	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 500, httpErr.Code)

	// The failed run is still written, exactly once, attributed to System.
	require.Len(t, logs.inserted, 1)
	assert.Equal(t, entities.SyncStatusFailed, logs.inserted[0].Status)
	assert.Equal(t, "System", logs.inserted[0].SyncedBy)
	require.NotNil(t, logs.inserted[0].ErrorMessage)
	assert.Contains(t, *logs.inserted[0].ErrorMessage, "Failed to sync departments")
}

func TestSyncAllPositionFetchFailureIsPartial(t *testing.T) {
	client := threePhasePayloads()
	client.positionsErr = errors.New("timeout")
	logs := &fakeSyncLogRepo{}
	svc := NewSyncService(client, &fakeSyncWriter{}, logs, zap.NewNop())

	res, err := svc.SyncAll(context.Background(), "", "")
	require.NoError(t, err)

	assert.Equal(t, entities.SyncStatusPartial, res.Status)
	assert.Equal(t, 1, res.DepartmentsCount)
	assert.Equal(t, 0, res.PositionsCount)
	// The employee phase still ran.
	assert.Equal(t, 1, res.EmployeesCount)
	assert.Contains(t, res.ErrorMessage, "Failed to sync positions.")

	require.Len(t, logs.inserted, 1)
}

func TestSyncAllBothOptionalPhasesFailing(t *testing.T) {
	client := threePhasePayloads()
	client.positionsErr = errors.New("timeout")
	client.employeesErr = errors.New("timeout")
	svc := NewSyncService(client, &fakeSyncWriter{}, &fakeSyncLogRepo{}, zap.NewNop())

	res, err := svc.SyncAll(context.Background(), "", "")
	require.NoError(t, err)

	assert.Equal(t, entities.SyncStatusPartial, res.Status)
	assert.Contains(t, res.ErrorMessage, "Failed to sync positions.")
	assert.Contains(t, res.ErrorMessage, "Failed to sync employees.")
}

func TestSyncAllUpsertFailureFailsRun(t *testing.T) {
	client := threePhasePayloads()
	logs := &fakeSyncLogRepo{}
	svc := NewSyncService(client, &fakeSyncWriter{employeesErr: errors.New("constraint violation")}, logs, zap.NewNop())

	_, err := svc.SyncAll(context.Background(), "", "")
	require.Error(t, err)

	require.Len(t, logs.inserted, 1)
	assert.Equal(t, entities.SyncStatusFailed, logs.inserted[0].Status)
	// Counts from the phases that completed are preserved.
	assert.Equal(t, 1, logs.inserted[0].DepartmentsCount)
	assert.Equal(t, 2, logs.inserted[0].PositionsCount)
}

func TestSyncSingleEntity(t *testing.T) {
	client := threePhasePayloads()
	logs := &fakeSyncLogRepo{}
	svc := NewSyncService(client, &fakeSyncWriter{}, logs, zap.NewNop())

	res, err := svc.SyncPositions(context.Background(), "Jane", "")
	require.NoError(t, err)
	assert.Equal(t, entities.SyncStatusSuccess, res.Status)
	assert.Equal(t, 2, res.PositionsCount)
	assert.Equal(t, 0, res.DepartmentsCount)

	require.Len(t, logs.inserted, 1)
	assert.Equal(t, entities.SyncTypePositions, logs.inserted[0].SyncType)
}

func TestTestConnection(t *testing.T) {
	svc := NewSyncService(&fakeExtClient{}, &fakeSyncWriter{}, &fakeSyncLogRepo{}, zap.NewNop())
	res := svc.TestConnection(context.Background())
	assert.True(t, res.Reachable)

	svc = NewSyncService(&fakeExtClient{connectionErr: errors.New("no route to host")}, &fakeSyncWriter{}, &fakeSyncLogRepo{}, zap.NewNop())
	res = svc.TestConnection(context.Background())
	assert.False(t, res.Reachable)
	assert.Contains(t, res.Message, "no route to host")
}
