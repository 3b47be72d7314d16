package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"capability-dashboard/internal/dto"
	"capability-dashboard/internal/entities"
	"capability-dashboard/internal/repositories"
	apperrors "capability-dashboard/pkg/errors"
	"capability-dashboard/pkg/types"
)

type fakeDashboardRepo struct {
	overview     []types.OverviewRow
	targets      *types.YearTargets
	trend        []types.TrendRow
	performers   []types.TopPerformerRow
	distribution []types.DistributionRow
	expiring     []types.ExpiringCertRow
	programs     []types.ProgramRow
	seasonal     []types.SeasonalRow
	departments  []types.DeptPerformanceRow
	velocity     []types.VelocityRow
	organizers   []types.OrganizerRow
	legacyDepts  []types.LegacyDeptRow
	legacyEmps   []types.LegacyEmployeeRow

	overviewErr error
}

func (f *fakeDashboardRepo) GetOverview(ctx context.Context, filter repositories.DashboardFilter) ([]types.OverviewRow, error) {
	return f.overview, f.overviewErr
}

func (f *fakeDashboardRepo) GetYearTargets(ctx context.Context, year int, departmentID string) (*types.YearTargets, error) {
	return f.targets, nil
}

func (f *fakeDashboardRepo) GetMonthlyTrend(ctx context.Context, filter repositories.DashboardFilter) ([]types.TrendRow, error) {
	return f.trend, nil
}

func (f *fakeDashboardRepo) GetTopPerformers(ctx context.Context, filter repositories.DashboardFilter) ([]types.TopPerformerRow, error) {
	return f.performers, nil
}

func (f *fakeDashboardRepo) GetTypeDistribution(ctx context.Context, filter repositories.DashboardFilter) ([]types.DistributionRow, error) {
	return f.distribution, nil
}

func (f *fakeDashboardRepo) GetExpiringCertifications(ctx context.Context, departmentID string) ([]types.ExpiringCertRow, error) {
	return f.expiring, nil
}

func (f *fakeDashboardRepo) GetProgramEffectiveness(ctx context.Context, filter repositories.DashboardFilter) ([]types.ProgramRow, error) {
	return f.programs, nil
}

func (f *fakeDashboardRepo) GetSeasonalPattern(ctx context.Context, filter repositories.DashboardFilter) ([]types.SeasonalRow, error) {
	return f.seasonal, nil
}

func (f *fakeDashboardRepo) GetDepartmentPerformance(ctx context.Context, filter repositories.DashboardFilter) ([]types.DeptPerformanceRow, error) {
	return f.departments, nil
}

func (f *fakeDashboardRepo) GetAchievementVelocity(ctx context.Context, filter repositories.DashboardFilter) ([]types.VelocityRow, error) {
	return f.velocity, nil
}

func (f *fakeDashboardRepo) GetOrganizerEffectiveness(ctx context.Context, filter repositories.DashboardFilter) ([]types.OrganizerRow, error) {
	return f.organizers, nil
}

func (f *fakeDashboardRepo) GetLegacyDeptStats(ctx context.Context, year int) ([]types.LegacyDeptRow, error) {
	return f.legacyDepts, nil
}

func (f *fakeDashboardRepo) GetLegacyEmployeeStats(ctx context.Context, year int) ([]types.LegacyEmployeeRow, error) {
	return f.legacyEmps, nil
}

type fakeTargetRepo struct {
	byYear   []entities.TargetWithDepartment
	existing *entities.Target

	created *dto.CreateTargetDTO
}

func (f *fakeTargetRepo) GetTargets(ctx context.Context, filter types.Filter) ([]entities.TargetWithDepartment, uint64, error) {
	return nil, 0, nil
}

func (f *fakeTargetRepo) FindTarget(ctx context.Context, id int64) (*entities.Target, error) {
	return nil, apperrors.ErrNotFound
}

func (f *fakeTargetRepo) FindTargetByDepartmentYear(ctx context.Context, departmentID string, year int) (*entities.Target, error) {
	if f.existing != nil && f.existing.DepartmentID == departmentID && f.existing.Year == year {
		return f.existing, nil
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeTargetRepo) ListTargetsByYear(ctx context.Context, year int) ([]entities.TargetWithDepartment, error) {
	return f.byYear, nil
}

func (f *fakeTargetRepo) CreateTarget(ctx context.Context, payload dto.CreateTargetDTO) (*entities.Target, error) {
	f.created = &payload
	return &entities.Target{
		ID:                  1,
		DepartmentID:        payload.DepartmentID,
		Year:                payload.Year,
		CertificationTarget: payload.CertificationTarget,
		LearningHoursTarget: payload.LearningHoursTarget,
	}, nil
}

func (f *fakeTargetRepo) UpdateTarget(ctx context.Context, id int64, payload dto.UpdateTargetDTO) (*entities.Target, error) {
	return nil, nil
}

func (f *fakeTargetRepo) DeleteTarget(ctx context.Context, id int64) error { return nil }

type fakeRiskRepo struct {
	stats   *types.RiskDataStats
	monthly []types.ChartPoint
	records []entities.RiskData

	lastFilter types.Filter
}

func (f *fakeRiskRepo) GetRiskData(ctx context.Context, filter types.Filter) ([]entities.RiskData, uint64, error) {
	f.lastFilter = filter
	return f.records, uint64(len(f.records)), nil
}

func (f *fakeRiskRepo) FindRiskData(ctx context.Context, id int64) (*entities.RiskData, error) {
	return nil, apperrors.ErrNotFound
}

func (f *fakeRiskRepo) CreateRiskData(ctx context.Context, payload dto.CreateRiskDataDTO) (*entities.RiskData, error) {
	return nil, nil
}

func (f *fakeRiskRepo) UpdateRiskData(ctx context.Context, id int64, payload dto.UpdateRiskDataDTO) (*entities.RiskData, error) {
	return nil, nil
}

func (f *fakeRiskRepo) DeleteRiskData(ctx context.Context, id int64) error { return nil }

func (f *fakeRiskRepo) GetStats(ctx context.Context) (*types.RiskDataStats, error) {
	return f.stats, nil
}

func (f *fakeRiskRepo) GetMonthlyChart(ctx context.Context) ([]types.ChartPoint, error) {
	return f.monthly, nil
}

func (f *fakeRiskRepo) GetCategoryChart(ctx context.Context) ([]types.ChartPoint, error) {
	return nil, nil
}

func newDashboardService(repo *fakeDashboardRepo, targets *fakeTargetRepo, risk *fakeRiskRepo) *DashboardService {
	return NewDashboardService(repo, targets, risk, zap.NewNop())
}

func TestGetDashboardOverviewPercentages(t *testing.T) {
	repo := &fakeDashboardRepo{
		overview: []types.OverviewRow{
			{Type: entities.AchievementTypeLearningHours, TotalCount: 12, TotalValue: 40},
			{Type: entities.AchievementTypeCertification, TotalCount: 3, TotalValue: 3},
		},
		targets: &types.YearTargets{LearningHours: 100, Certifications: 4},
	}

	res, err := newDashboardService(repo, &fakeTargetRepo{}, &fakeRiskRepo{}).
		GetDashboard(context.Background(), repositories.DashboardFilter{Year: 2025})
	require.NoError(t, err)

	assert.Equal(t, 40, res.Overview.LearningHours.Total)
	assert.Equal(t, 100, res.Overview.LearningHours.Target)
	assert.Equal(t, 40, res.Overview.LearningHours.Percentage)
	assert.Equal(t, 3, res.Overview.Certifications.Total)
	assert.Equal(t, 4, res.Overview.Certifications.Target)
	assert.Equal(t, 75, res.Overview.Certifications.Percentage)
}

func TestGetDashboardZeroTargetMeansZeroPercent(t *testing.T) {
	repo := &fakeDashboardRepo{
		overview: []types.OverviewRow{
			{Type: entities.AchievementTypeLearningHours, TotalValue: 55},
		},
	}

	res, err := newDashboardService(repo, &fakeTargetRepo{}, &fakeRiskRepo{}).
		GetDashboard(context.Background(), repositories.DashboardFilter{Year: 2025})
	require.NoError(t, err)

	assert.Equal(t, 55, res.Overview.LearningHours.Total)
	assert.Equal(t, 0, res.Overview.LearningHours.Target)
	assert.Equal(t, 0, res.Overview.LearningHours.Percentage)
}

func TestGetDashboardWidgetFailure(t *testing.T) {
	repo := &fakeDashboardRepo{overviewErr: errors.New("connection reset")}

	_, err := newDashboardService(repo, &fakeTargetRepo{}, &fakeRiskRepo{}).
		GetDashboard(context.Background(), repositories.DashboardFilter{Year: 2025})
	require.Error(t, err)

	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 500, httpErr.Code)
	assert.Equal(t, "failed to fetch dashboard data", httpErr.Message)
}

func TestGetDashboardSeasonalZeroFill(t *testing.T) {
	repo := &fakeDashboardRepo{
		seasonal: []types.SeasonalRow{
			{Month: 3, Type: entities.AchievementTypeLearningHours, Count: 7},
			{Month: 11, Type: entities.AchievementTypeCertification, Count: 2},
		},
	}

	res, err := newDashboardService(repo, &fakeTargetRepo{}, &fakeRiskRepo{}).
		GetDashboard(context.Background(), repositories.DashboardFilter{Year: 2025})
	require.NoError(t, err)

	require.Len(t, res.PolaMusimanLH, 12)
	require.Len(t, res.PolaMusimanCert, 12)
	assert.Equal(t, "Jan", res.PolaMusimanLH[0].Bulan)
	assert.Equal(t, "Mei", res.PolaMusimanLH[4].Bulan)
	assert.Equal(t, "Agu", res.PolaMusimanLH[7].Bulan)
	assert.Equal(t, "Des", res.PolaMusimanLH[11].Bulan)
	assert.Equal(t, 7, res.PolaMusimanLH[2].Jumlah)
	assert.Equal(t, 0, res.PolaMusimanLH[1].Jumlah)
	assert.Equal(t, 2, res.PolaMusimanCert[10].Jumlah)
	assert.Equal(t, 0, res.PolaMusimanCert[2].Jumlah)
}

func TestGetDashboardExpiryStatusLabels(t *testing.T) {
	validUntil := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	repo := &fakeDashboardRepo{
		expiring: []types.ExpiringCertRow{
			{Topic: "ISO 31000", EmployeeName: "Ana", ValidUntil: validUntil, DaysRemaining: 20},
			{Topic: "CRMP", EmployeeName: "Budi", ValidUntil: validUntil, DaysRemaining: 45},
			{Topic: "PMP", EmployeeName: "Citra", ValidUntil: validUntil, DaysRemaining: 75},
		},
	}

	res, err := newDashboardService(repo, &fakeTargetRepo{}, &fakeRiskRepo{}).
		GetDashboard(context.Background(), repositories.DashboardFilter{Year: 2025})
	require.NoError(t, err)

	require.Len(t, res.SertifikasiKadaluarsa, 3)
	assert.Equal(t, "Urgent (20 hari)", res.SertifikasiKadaluarsa[0].Status)
	assert.Equal(t, "Warning (45 hari)", res.SertifikasiKadaluarsa[1].Status)
	assert.Equal(t, "Reminder (75 hari)", res.SertifikasiKadaluarsa[2].Status)
	assert.Equal(t, 20, res.SertifikasiKadaluarsa[0].HariMenjelang)
}

func TestGetDashboardProgramDurationFloor(t *testing.T) {
	repo := &fakeDashboardRepo{
		programs: []types.ProgramRow{
			{Topic: "Risk Workshop", Organizer: "Internal", Participants: 8, AvgHours: 3.14159, DurationDays: 0},
			{Topic: "Leadership", Organizer: "Vendor", Participants: 5, AvgHours: 6.05, DurationDays: 3},
		},
	}

	res, err := newDashboardService(repo, &fakeTargetRepo{}, &fakeRiskRepo{}).
		GetDashboard(context.Background(), repositories.DashboardFilter{Year: 2025})
	require.NoError(t, err)

	require.Len(t, res.EfektivitasProgram, 2)
	assert.Equal(t, 1, res.EfektivitasProgram[0].Durasi)
	assert.Equal(t, 3.1, res.EfektivitasProgram[0].RataJam)
	assert.Equal(t, 3, res.EfektivitasProgram[1].Durasi)
	assert.Equal(t, 6.1, res.EfektivitasProgram[1].RataJam)
}

func TestGetDashboardDeptPercentagesUncapped(t *testing.T) {
	repo := &fakeDashboardRepo{
		departments: []types.DeptPerformanceRow{
			{Department: "Risk Management", TotalLH: 300, TotalCert: 6, ActiveEmployees: 4, LHTargetPct: 150, CertTargetPct: 120.4},
		},
	}

	res, err := newDashboardService(repo, &fakeTargetRepo{}, &fakeRiskRepo{}).
		GetDashboard(context.Background(), repositories.DashboardFilter{Year: 2025})
	require.NoError(t, err)

	require.Len(t, res.DepartmentPerformance, 1)
	assert.Equal(t, 150, res.DepartmentPerformance[0].PersenLH)
	assert.Equal(t, 120, res.DepartmentPerformance[0].PersenCert)
}

func TestGetDashboardVelocityRounding(t *testing.T) {
	repo := &fakeDashboardRepo{
		velocity: []types.VelocityRow{
			{EmployeeName: "Dewi", Department: "Audit", TotalCount: 9, PerDay: 0.12345, LHPerMonth: 10.006},
		},
	}

	res, err := newDashboardService(repo, &fakeTargetRepo{}, &fakeRiskRepo{}).
		GetDashboard(context.Background(), repositories.DashboardFilter{Year: 2025})
	require.NoError(t, err)

	require.Len(t, res.AchievementVelocity, 1)
	assert.Equal(t, 0.12, res.AchievementVelocity[0].PencapaianPerHari)
	assert.Equal(t, 10.01, res.AchievementVelocity[0].LHPerBulan)
}

func TestGetDashboardTrendMergesTypesPerMonth(t *testing.T) {
	repo := &fakeDashboardRepo{
		trend: []types.TrendRow{
			{Month: "2025-02", Type: entities.AchievementTypeCertification, Count: 2, MonthlyTarget: 1},
			{Month: "2025-01", Type: entities.AchievementTypeLearningHours, TotalValue: 30, MonthlyTarget: 25},
			{Month: "2025-01", Type: entities.AchievementTypeCertification, Count: 1, MonthlyTarget: 1},
		},
	}

	res, err := newDashboardService(repo, &fakeTargetRepo{}, &fakeRiskRepo{}).
		GetDashboard(context.Background(), repositories.DashboardFilter{Year: 2025})
	require.NoError(t, err)

	require.Len(t, res.TrendBulanan, 2)
	assert.Equal(t, "2025-01", res.TrendBulanan[0].Bulan)
	assert.Equal(t, 30, res.TrendBulanan[0].LearningHoursAktual)
	assert.Equal(t, 25, res.TrendBulanan[0].LearningHoursTarget)
	assert.Equal(t, 1, res.TrendBulanan[0].SertifikasiAktual)
	assert.Equal(t, "2025-02", res.TrendBulanan[1].Bulan)
	assert.Equal(t, 2, res.TrendBulanan[1].SertifikasiAktual)
}

func TestGetLegacyDashboard(t *testing.T) {
	riskName := "Divisi Manajemen Risiko"
	repo := &fakeDashboardRepo{
		legacyDepts: []types.LegacyDeptRow{
			{DepartmentID: "OPS", DepartmentName: "Operasional", LearningHours: 80, Certifications: 2, EmployeeCount: 10},
			{DepartmentID: "MRK", DepartmentName: "Manajemen Risiko", LearningHours: 120, Certifications: 4, EmployeeCount: 6},
		},
		legacyEmps: make([]types.LegacyEmployeeRow, 0, 25),
	}
	for i := 0; i < 25; i++ {
		repo.legacyEmps = append(repo.legacyEmps, types.LegacyEmployeeRow{
			EmployeeID:    string(rune('a' + i)),
			EmployeeName:  "Employee",
			LearningHours: int64(100 - i),
		})
	}
	targetRepo := &fakeTargetRepo{
		byYear: []entities.TargetWithDepartment{
			{Target: entities.Target{DepartmentID: "MRK", Year: 2025, LearningHoursTarget: 100, CertificationTarget: 8}, DepartmentName: &riskName},
			{Target: entities.Target{DepartmentID: "OPS", Year: 2025, LearningHoursTarget: 200, CertificationTarget: 4}},
		},
	}

	res, err := newDashboardService(repo, targetRepo, &fakeRiskRepo{}).
		GetLegacyDashboard(context.Background(), 2025)
	require.NoError(t, err)

	assert.Equal(t, 2025, res.Year)
	assert.Equal(t, 200, res.Summary.TotalLearningHours)
	assert.Equal(t, 300, res.Summary.TotalLearningHoursTarget)
	assert.Equal(t, 67, res.Summary.LearningHoursProgress)
	assert.Equal(t, 6, res.Summary.TotalCertifications)
	assert.Equal(t, 12, res.Summary.TotalCertificationsTarget)
	assert.Equal(t, 50, res.Summary.CertificationsProgress)
	assert.Equal(t, 25, res.Summary.TotalEmployees)
	assert.Equal(t, 2, res.Summary.TotalDepartments)

	// Departments come back sorted by display name; the target row's
	// department name wins when present.
	require.Len(t, res.DepartmentData, 2)
	assert.Equal(t, riskName, res.DepartmentData[0].DepartmentName)
	assert.Equal(t, 120, res.DepartmentData[0].LearningHours)
	assert.Equal(t, 100, res.DepartmentData[0].LearningHoursTarget)
	assert.Equal(t, 120, res.DepartmentData[0].LearningHoursProgress)
	assert.Equal(t, 50, res.DepartmentData[0].CertificationsProgress)
	assert.Equal(t, "Operasional", res.DepartmentData[1].DepartmentName)
	assert.Equal(t, 40, res.DepartmentData[1].LearningHoursProgress)

	assert.Len(t, res.EmployeeData, 20)
}

func TestGetChart(t *testing.T) {
	risk := &fakeRiskRepo{
		monthly: []types.ChartPoint{{Name: "2025-01", Value: 12}},
		records: []entities.RiskData{{ID: 1}, {ID: 2}},
	}
	svc := newDashboardService(&fakeDashboardRepo{}, &fakeTargetRepo{}, risk)

	monthly, err := svc.GetChart(context.Background(), "monthly")
	require.NoError(t, err)
	assert.Equal(t, risk.monthly, monthly)

	recent, err := svc.GetChart(context.Background(), "anything-else")
	require.NoError(t, err)
	assert.Equal(t, risk.records, recent)
	assert.Equal(t, 10, risk.lastFilter.Limit)
	assert.Equal(t, "desc", risk.lastFilter.Sort["created_at"])
}
