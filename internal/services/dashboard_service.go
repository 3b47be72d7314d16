package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"go.uber.org/zap"

	"capability-dashboard/internal/dto"
	"capability-dashboard/internal/entities"
	"capability-dashboard/internal/repositories"
	apperrors "capability-dashboard/pkg/errors"
	"capability-dashboard/pkg/types"
)

// Indonesian month abbreviations used by the seasonal widgets.
var monthNames = []string{"Jan", "Feb", "Mar", "Apr", "Mei", "Jun", "Jul", "Agu", "Sep", "Okt", "Nov", "Des"}

type DashboardService struct {
	repo       repositories.DashboardRepositoryInterface
	targetRepo repositories.TargetRepositoryInterface
	riskRepo   repositories.RiskDataRepositoryInterface
	logger     *zap.Logger
}

func NewDashboardService(
	repo repositories.DashboardRepositoryInterface,
	targetRepo repositories.TargetRepositoryInterface,
	riskRepo repositories.RiskDataRepositoryInterface,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{repo: repo, targetRepo: targetRepo, riskRepo: riskRepo, logger: logger}
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }

// GetDashboard collects all ten widgets concurrently and assembles the
// comprehensive response. Any widget failure fails the whole request.
func (s *DashboardService) GetDashboard(ctx context.Context, filter repositories.DashboardFilter) (*dto.DashboardDTO, error) {
	var (
		wg sync.WaitGroup

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

		errs []error
		mu   sync.Mutex
	)

	addTask := func(fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}()
	}

	addTask(func() (err error) { overview, err = s.repo.GetOverview(ctx, filter); return })
	addTask(func() (err error) { targets, err = s.repo.GetYearTargets(ctx, filter.Year, filter.DepartmentID); return })
	addTask(func() (err error) { trend, err = s.repo.GetMonthlyTrend(ctx, filter); return })
	addTask(func() (err error) { performers, err = s.repo.GetTopPerformers(ctx, filter); return })
	addTask(func() (err error) { distribution, err = s.repo.GetTypeDistribution(ctx, filter); return })
	addTask(func() (err error) { expiring, err = s.repo.GetExpiringCertifications(ctx, filter.DepartmentID); return })
	addTask(func() (err error) { programs, err = s.repo.GetProgramEffectiveness(ctx, filter); return })
	addTask(func() (err error) { seasonal, err = s.repo.GetSeasonalPattern(ctx, filter); return })
	addTask(func() (err error) { departments, err = s.repo.GetDepartmentPerformance(ctx, filter); return })
	addTask(func() (err error) { velocity, err = s.repo.GetAchievementVelocity(ctx, filter); return })
	addTask(func() (err error) { organizers, err = s.repo.GetOrganizerEffectiveness(ctx, filter); return })

	wg.Wait()

	if len(errs) > 0 {
		s.logger.Error("dashboard widget query failed", zap.Error(errs[0]), zap.Int("year", filter.Year))
		return nil, apperrors.NewInternalError("failed to fetch dashboard data")
	}

	result := &dto.DashboardDTO{
		Overview:               buildOverview(overview, targets),
		TrendBulanan:           buildTrend(trend),
		TopPerformers:          buildTopPerformers(performers),
		DistribusiJenis:        buildDistribution(distribution),
		SertifikasiKadaluarsa:  buildExpiring(expiring),
		EfektivitasProgram:     buildPrograms(programs),
		DepartmentPerformance:  buildDeptPerformance(departments),
		AchievementVelocity:    buildVelocity(velocity),
		OrganizerEffectiveness: buildOrganizers(organizers),
	}
	result.PolaMusimanLH, result.PolaMusimanCert = buildSeasonal(seasonal)
	return result, nil
}

func buildOverview(rows []types.OverviewRow, targets *types.YearTargets) dto.OverviewDTO {
	var out dto.OverviewDTO
	if targets == nil {
		targets = &types.YearTargets{}
	}
	pct := func(realized, target float64) int {
		if target == 0 {
			return 0
		}
		return int(math.Round(realized * 100 / target))
	}
	out.LearningHours.Target = int(math.Round(targets.LearningHours))
	out.Certifications.Target = int(math.Round(targets.Certifications))
	for _, row := range rows {
		switch row.Type {
		case entities.AchievementTypeLearningHours:
			out.LearningHours.Total = int(math.Round(row.TotalValue))
			out.LearningHours.Percentage = pct(row.TotalValue, targets.LearningHours)
		case entities.AchievementTypeCertification:
			out.Certifications.Total = int(row.TotalCount)
			out.Certifications.Percentage = pct(float64(row.TotalCount), targets.Certifications)
		}
	}
	return out
}

func buildTrend(rows []types.TrendRow) []dto.MonthlyTrendDTO {
	byMonth := map[string]*dto.MonthlyTrendDTO{}
	order := []string{}
	for _, row := range rows {
		bucket, ok := byMonth[row.Month]
		if !ok {
			bucket = &dto.MonthlyTrendDTO{Bulan: row.Month}
			byMonth[row.Month] = bucket
			order = append(order, row.Month)
		}
		switch row.Type {
		case entities.AchievementTypeLearningHours:
			bucket.LearningHoursAktual = int(math.Round(row.TotalValue))
			bucket.LearningHoursTarget = int(math.Round(row.MonthlyTarget))
		case entities.AchievementTypeCertification:
			bucket.SertifikasiAktual = int(row.Count)
			bucket.SertifikasiTarget = int(math.Round(row.MonthlyTarget))
		}
	}
	sort.Strings(order)
	out := make([]dto.MonthlyTrendDTO, 0, len(order))
	for _, month := range order {
		out = append(out, *byMonth[month])
	}
	return out
}

func buildTopPerformers(rows []types.TopPerformerRow) []dto.TopPerformerDTO {
	out := make([]dto.TopPerformerDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.TopPerformerDTO{
			Nama:            row.EmployeeName,
			Department:      row.Department,
			Jabatan:         row.Position,
			TotalLH:         int(row.TotalLH),
			TotalCert:       int(row.TotalCert),
			TotalPencapaian: int(row.TotalCount),
		})
	}
	return out
}

func buildDistribution(rows []types.DistributionRow) []dto.TypeDistributionDTO {
	byDept := map[string]*dto.TypeDistributionDTO{}
	order := []string{}
	for _, row := range rows {
		bucket, ok := byDept[row.Department]
		if !ok {
			bucket = &dto.TypeDistributionDTO{Department: row.Department}
			byDept[row.Department] = bucket
			order = append(order, row.Department)
		}
		switch row.Type {
		case entities.AchievementTypeLearningHours:
			bucket.LearningHours = int(row.Count)
		case entities.AchievementTypeCertification:
			bucket.Sertifikasi = int(row.Count)
		}
	}
	out := make([]dto.TypeDistributionDTO, 0, len(order))
	for _, dept := range order {
		out = append(out, *byDept[dept])
	}
	return out
}

// expirySeverity buckets days-remaining into the alert level shown next
// to each expiring certification.
func expirySeverity(days int) string {
	switch {
	case days <= 30:
		return "Urgent"
	case days <= 60:
		return "Warning"
	default:
		return "Reminder"
	}
}

func buildExpiring(rows []types.ExpiringCertRow) []dto.ExpiringCertificationDTO {
	out := make([]dto.ExpiringCertificationDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.ExpiringCertificationDTO{
			Topic:         row.Topic,
			Nama:          row.EmployeeName,
			Department:    row.Department,
			Jabatan:       row.Position,
			ValidUntil:    row.ValidUntil,
			HariMenjelang: row.DaysRemaining,
			Status:        fmt.Sprintf("%s (%d hari)", expirySeverity(row.DaysRemaining), row.DaysRemaining),
		})
	}
	return out
}

func buildPrograms(rows []types.ProgramRow) []dto.ProgramEffectivenessDTO {
	out := make([]dto.ProgramEffectivenessDTO, 0, len(rows))
	for _, row := range rows {
		duration := row.DurationDays
		if duration < 1 {
			duration = 1
		}
		out = append(out, dto.ProgramEffectivenessDTO{
			Topic:     row.Topic,
			Organizer: row.Organizer,
			Peserta:   int(row.Participants),
			RataJam:   round1(row.AvgHours),
			Durasi:    duration,
		})
	}
	return out
}

func buildSeasonal(rows []types.SeasonalRow) ([]dto.SeasonalPointDTO, []dto.SeasonalPointDTO) {
	lhByMonth := map[int]int{}
	certByMonth := map[int]int{}
	for _, row := range rows {
		switch row.Type {
		case entities.AchievementTypeLearningHours:
			lhByMonth[row.Month] = int(row.Count)
		case entities.AchievementTypeCertification:
			certByMonth[row.Month] = int(row.Count)
		}
	}
	lh := make([]dto.SeasonalPointDTO, 0, 12)
	cert := make([]dto.SeasonalPointDTO, 0, 12)
	for month := 1; month <= 12; month++ {
		name := monthNames[month-1]
		lh = append(lh, dto.SeasonalPointDTO{Bulan: name, Jumlah: lhByMonth[month]})
		cert = append(cert, dto.SeasonalPointDTO{Bulan: name, Jumlah: certByMonth[month]})
	}
	return lh, cert
}

func buildDeptPerformance(rows []types.DeptPerformanceRow) []dto.DepartmentPerformanceDTO {
	out := make([]dto.DepartmentPerformanceDTO, 0, len(rows))
	for _, row := range rows {
		// Percentages go out uncapped; a department that beat its target
		// reports >100 and the client decides how to render it.
		out = append(out, dto.DepartmentPerformanceDTO{
			Department:   row.Department,
			TotalLH:      int(math.Round(row.TotalLH)),
			TotalCert:    int(row.TotalCert),
			PegawaiAktif: int(row.ActiveEmployees),
			PersenLH:     int(math.Round(row.LHTargetPct)),
			PersenCert:   int(math.Round(row.CertTargetPct)),
		})
	}
	return out
}

func buildVelocity(rows []types.VelocityRow) []dto.AchievementVelocityDTO {
	out := make([]dto.AchievementVelocityDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.AchievementVelocityDTO{
			Nama:              row.EmployeeName,
			Department:        row.Department,
			TotalPencapaian:   int(row.TotalCount),
			PencapaianPerHari: round2(row.PerDay),
			LHPerBulan:        round2(row.LHPerMonth),
		})
	}
	return out
}

func buildOrganizers(rows []types.OrganizerRow) []dto.OrganizerEffectivenessDTO {
	out := make([]dto.OrganizerEffectivenessDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.OrganizerEffectivenessDTO{
			Organizer:    row.Organizer,
			TotalProgram: int(row.ProgramCount),
			VariasiTopik: int(row.TopicCount),
			PesertaUnik:  int(row.Participants),
			RataNilai:    round1(row.AvgValue),
		})
	}
	return out
}

// GetLegacyDashboard reproduces the first-generation summary endpoint:
// year totals, per-department progress and the top-20 employees by
// learning hours.
func (s *DashboardService) GetLegacyDashboard(ctx context.Context, year int) (*dto.LegacyDashboardDTO, error) {
	deptRows, err := s.repo.GetLegacyDeptStats(ctx, year)
	if err != nil {
		return nil, err
	}
	employeeRows, err := s.repo.GetLegacyEmployeeStats(ctx, year)
	if err != nil {
		return nil, err
	}
	targets, err := s.targetRepo.ListTargetsByYear(ctx, year)
	if err != nil {
		return nil, err
	}

	targetByDept := map[string]entities.TargetWithDepartment{}
	var totalLHTarget, totalCertTarget int
	for _, t := range targets {
		targetByDept[t.DepartmentID] = t
		totalLHTarget += t.LearningHoursTarget
		totalCertTarget += t.CertificationTarget
	}

	progress := func(realized, target int) int {
		if target == 0 {
			return 0
		}
		return int(math.Round(float64(realized) * 100 / float64(target)))
	}

	var totalLH, totalCert int
	departmentData := make([]dto.LegacyDepartmentRowDTO, 0, len(deptRows))
	for _, row := range deptRows {
		totalLH += int(row.LearningHours)
		totalCert += int(row.Certifications)

		target := targetByDept[row.DepartmentID]
		name := row.DepartmentName
		if target.DepartmentName != nil {
			name = *target.DepartmentName
		}
		departmentData = append(departmentData, dto.LegacyDepartmentRowDTO{
			DepartmentID:           row.DepartmentID,
			DepartmentName:         name,
			LearningHours:          int(row.LearningHours),
			LearningHoursTarget:    target.LearningHoursTarget,
			Certifications:         int(row.Certifications),
			CertificationsTarget:   target.CertificationTarget,
			EmployeeCount:          int(row.EmployeeCount),
			LearningHoursProgress:  progress(int(row.LearningHours), target.LearningHoursTarget),
			CertificationsProgress: progress(int(row.Certifications), target.CertificationTarget),
		})
	}
	sort.Slice(departmentData, func(i, j int) bool {
		return departmentData[i].DepartmentName < departmentData[j].DepartmentName
	})

	employeeData := make([]dto.LegacyEmployeeRowDTO, 0, 20)
	for i, row := range employeeRows {
		if i == 20 {
			break
		}
		employeeData = append(employeeData, dto.LegacyEmployeeRowDTO{
			EmployeeID:     row.EmployeeID,
			EmployeeName:   row.EmployeeName,
			Department:     row.Department,
			LearningHours:  int(row.LearningHours),
			Certifications: int(row.Certifications),
		})
	}

	return &dto.LegacyDashboardDTO{
		Year: year,
		Summary: dto.LegacySummaryDTO{
			TotalLearningHours:        totalLH,
			TotalLearningHoursTarget:  totalLHTarget,
			LearningHoursProgress:     progress(totalLH, totalLHTarget),
			TotalCertifications:       totalCert,
			TotalCertificationsTarget: totalCertTarget,
			CertificationsProgress:    progress(totalCert, totalCertTarget),
			TotalEmployees:            len(employeeRows),
			TotalDepartments:          len(deptRows),
		},
		DepartmentData: departmentData,
		EmployeeData:   employeeData,
	}, nil
}

// GetBasicStats serves the legacy risk data stats endpoint.
func (s *DashboardService) GetBasicStats(ctx context.Context) (*types.RiskDataStats, error) {
	return s.riskRepo.GetStats(ctx)
}

// GetChart serves the legacy chart endpoint: monthly sums, category
// counts, or the most recent records for any other type value.
func (s *DashboardService) GetChart(ctx context.Context, chartType string) (interface{}, error) {
	switch chartType {
	case "monthly":
		return s.riskRepo.GetMonthlyChart(ctx)
	case "category":
		return s.riskRepo.GetCategoryChart(ctx)
	default:
		records, _, err := s.riskRepo.GetRiskData(ctx, types.Filter{
			Sort:           map[string]string{"created_at": "desc"},
			Limit:          10,
			WithPagination: true,
		})
		return records, err
	}
}
