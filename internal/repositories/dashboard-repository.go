package repositories

import (
	"context"
	"fmt"
	"strings"

	"capability-dashboard/pkg/types"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// DashboardFilter restricts widget queries to one year and, optionally,
// one department and one achievement type.
type DashboardFilter struct {
	Year         int
	DepartmentID string
	Type         int
}

type DashboardRepositoryInterface interface {
	GetOverview(ctx context.Context, filter DashboardFilter) ([]types.OverviewRow, error)
	GetYearTargets(ctx context.Context, year int, departmentID string) (*types.YearTargets, error)
	GetMonthlyTrend(ctx context.Context, filter DashboardFilter) ([]types.TrendRow, error)
	GetTopPerformers(ctx context.Context, filter DashboardFilter) ([]types.TopPerformerRow, error)
	GetTypeDistribution(ctx context.Context, filter DashboardFilter) ([]types.DistributionRow, error)
	GetExpiringCertifications(ctx context.Context, departmentID string) ([]types.ExpiringCertRow, error)
	GetProgramEffectiveness(ctx context.Context, filter DashboardFilter) ([]types.ProgramRow, error)
	GetSeasonalPattern(ctx context.Context, filter DashboardFilter) ([]types.SeasonalRow, error)
	GetDepartmentPerformance(ctx context.Context, filter DashboardFilter) ([]types.DeptPerformanceRow, error)
	GetAchievementVelocity(ctx context.Context, filter DashboardFilter) ([]types.VelocityRow, error)
	GetOrganizerEffectiveness(ctx context.Context, filter DashboardFilter) ([]types.OrganizerRow, error)
	GetLegacyDeptStats(ctx context.Context, year int) ([]types.LegacyDeptRow, error)
	GetLegacyEmployeeStats(ctx context.Context, year int) ([]types.LegacyEmployeeRow, error)
}

type DashboardRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewDashboardRepository(storage *pgxpool.Pool, logger *zap.Logger) DashboardRepositoryInterface {
	return &DashboardRepository{storage: storage, logger: logger}
}

// widgetWhere builds the shared WHERE tail of the widget queries. The
// year predicate is always present; department and type are optional.
func widgetWhere(filter DashboardFilter, includeType bool) (string, []interface{}) {
	conditions := []string{"EXTRACT(YEAR FROM created_at) = $1"}
	args := []interface{}{filter.Year}
	if filter.DepartmentID != "" {
		args = append(args, filter.DepartmentID)
		conditions = append(conditions, fmt.Sprintf("department_id = $%d", len(args)))
	}
	if includeType && filter.Type != 0 {
		args = append(args, filter.Type)
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)))
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

func collect[T any](ctx context.Context, storage *pgxpool.Pool, query string, args ...interface{}) ([]T, error) {
	rows, err := storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, fmt.Errorf("collect widget rows: %w", err)
	}
	return items, nil
}

func (r *DashboardRepository) GetOverview(ctx context.Context, filter DashboardFilter) ([]types.OverviewRow, error) {
	where, args := widgetWhere(filter, true)
	query := fmt.Sprintf(`
		SELECT
			type AS achievement_type,
			COUNT(*) AS total_count,
			COALESCE(SUM(value), 0)::float8 AS total_value
		FROM v_achievements
		%s
		GROUP BY type`, where)
	return collect[types.OverviewRow](ctx, r.storage, query, args...)
}

// GetYearTargets sums the annual department targets the overview compares
// against, optionally narrowed to one department.
func (r *DashboardRepository) GetYearTargets(ctx context.Context, year int, departmentID string) (*types.YearTargets, error) {
	query := `
		SELECT
			COALESCE(SUM(learning_hours_target), 0)::float8 AS learning_hours_target,
			COALESCE(SUM(certification_target), 0)::float8 AS certification_target
		FROM targets
		WHERE year = $1`
	args := []interface{}{year}
	if departmentID != "" {
		query += " AND department_id = $2"
		args = append(args, departmentID)
	}
	targets := &types.YearTargets{}
	err := r.storage.QueryRow(ctx, query, args...).Scan(&targets.LearningHours, &targets.Certifications)
	return targets, err
}

func (r *DashboardRepository) GetMonthlyTrend(ctx context.Context, filter DashboardFilter) ([]types.TrendRow, error) {
	conditions := []string{"created_at >= NOW() - INTERVAL '12 months'"}
	args := []interface{}{}
	if filter.DepartmentID != "" {
		args = append(args, filter.DepartmentID)
		conditions = append(conditions, fmt.Sprintf("department_id = $%d", len(args)))
	}
	if filter.Type != 0 {
		args = append(args, filter.Type)
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)))
	}
	query := fmt.Sprintf(`
		SELECT
			to_char(created_at, 'YYYY-MM') AS month,
			type AS achievement_type,
			COUNT(*) AS total_count,
			COALESCE(SUM(value), 0)::float8 AS total_value,
			COALESCE(AVG(CASE WHEN type = 1 THEN learning_hours_target ELSE certification_target END), 0)::float8 AS monthly_target
		FROM v_achievements
		WHERE %s
		GROUP BY to_char(created_at, 'YYYY-MM'), type
		ORDER BY month`, strings.Join(conditions, " AND "))
	return collect[types.TrendRow](ctx, r.storage, query, args...)
}

func (r *DashboardRepository) GetTopPerformers(ctx context.Context, filter DashboardFilter) ([]types.TopPerformerRow, error) {
	where, args := widgetWhere(filter, true)
	query := fmt.Sprintf(`
		SELECT
			COALESCE(department_name, 'N/A') AS department_name,
			employee_name,
			email,
			COALESCE(position_name, 'N/A') AS position_name,
			COUNT(*) AS total_count,
			COALESCE(SUM(CASE WHEN type = 1 THEN value ELSE 0 END), 0) AS total_lh,
			COALESCE(SUM(CASE WHEN type = 2 THEN 1 ELSE 0 END), 0) AS total_cert
		FROM v_achievements
		%s
		GROUP BY department_name, employee_name, email, position_name
		ORDER BY total_count DESC
		LIMIT 20`, where)
	return collect[types.TopPerformerRow](ctx, r.storage, query, args...)
}

func (r *DashboardRepository) GetTypeDistribution(ctx context.Context, filter DashboardFilter) ([]types.DistributionRow, error) {
	where, args := widgetWhere(filter, true)
	query := fmt.Sprintf(`
		SELECT
			COALESCE(department_name, 'N/A') AS department_name,
			type AS achievement_type,
			COUNT(*) AS total_count,
			(COUNT(*) * 100.0 / SUM(COUNT(*)) OVER (PARTITION BY department_name))::float8 AS share
		FROM v_achievements
		%s
		GROUP BY department_name, type
		ORDER BY department_name, type`, where)
	return collect[types.DistributionRow](ctx, r.storage, query, args...)
}

// GetExpiringCertifications returns certifications whose validity ends
// within the next three months, soonest first. Not bounded by year.
func (r *DashboardRepository) GetExpiringCertifications(ctx context.Context, departmentID string) ([]types.ExpiringCertRow, error) {
	conditions := []string{
		"type = 2",
		"valid_until BETWEEN NOW() AND NOW() + INTERVAL '3 months'",
	}
	args := []interface{}{}
	if departmentID != "" {
		args = append(args, departmentID)
		conditions = append(conditions, fmt.Sprintf("department_id = $%d", len(args)))
	}
	query := fmt.Sprintf(`
		SELECT
			topic,
			employee_name,
			COALESCE(department_name, 'N/A') AS department_name,
			COALESCE(position_name, 'N/A') AS position_name,
			email,
			valid_until,
			(valid_until::date - CURRENT_DATE)::int AS days_remaining
		FROM v_achievements
		WHERE %s
		ORDER BY valid_until ASC`, strings.Join(conditions, " AND "))
	return collect[types.ExpiringCertRow](ctx, r.storage, query, args...)
}

func (r *DashboardRepository) GetProgramEffectiveness(ctx context.Context, filter DashboardFilter) ([]types.ProgramRow, error) {
	where, args := widgetWhere(filter, false)
	query := fmt.Sprintf(`
		SELECT
			topic,
			COALESCE(organizer, 'Unknown') AS organizer,
			COUNT(DISTINCT employee_id) AS participants,
			AVG(value)::float8 AS avg_hours,
			MIN(value)::float8 AS min_hours,
			MAX(value)::float8 AS max_hours,
			COALESCE(date_end::date - date_start::date, 0) AS duration_days
		FROM v_achievements
		%s AND type = 1
		GROUP BY topic, organizer, COALESCE(date_end::date - date_start::date, 0)
		ORDER BY avg_hours DESC
		LIMIT 20`, where)
	return collect[types.ProgramRow](ctx, r.storage, query, args...)
}

func (r *DashboardRepository) GetSeasonalPattern(ctx context.Context, filter DashboardFilter) ([]types.SeasonalRow, error) {
	where, args := widgetWhere(filter, true)
	query := fmt.Sprintf(`
		SELECT
			EXTRACT(MONTH FROM created_at)::int AS month,
			type AS achievement_type,
			COUNT(*) AS total_count,
			AVG(COUNT(*)) OVER (PARTITION BY type)::float8 AS monthly_avg
		FROM v_achievements
		%s
		GROUP BY EXTRACT(MONTH FROM created_at), type
		ORDER BY month, type`, where)
	return collect[types.SeasonalRow](ctx, r.storage, query, args...)
}

func (r *DashboardRepository) GetDepartmentPerformance(ctx context.Context, filter DashboardFilter) ([]types.DeptPerformanceRow, error) {
	conditions := []string{"EXTRACT(YEAR FROM created_at) = $1"}
	args := []interface{}{filter.Year}
	if filter.Type != 0 {
		args = append(args, filter.Type)
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)))
	}
	query := fmt.Sprintf(`
		SELECT
			COALESCE(department_name, 'N/A') AS department_name,
			COUNT(*) AS total_count,
			COALESCE(SUM(CASE WHEN type = 1 THEN value ELSE 0 END), 0)::float8 AS total_lh,
			COALESCE(SUM(CASE WHEN type = 2 THEN 1 ELSE 0 END), 0) AS total_cert,
			COUNT(DISTINCT employee_id) AS active_employees,
			COALESCE(ROUND(
				SUM(CASE WHEN type = 1 THEN value ELSE 0 END) * 100.0 /
				NULLIF(AVG(learning_hours_target), 0), 2), 0)::float8 AS lh_target_pct,
			COALESCE(ROUND(
				SUM(CASE WHEN type = 2 THEN 1 ELSE 0 END) * 100.0 /
				NULLIF(AVG(certification_target), 0), 2), 0)::float8 AS cert_target_pct
		FROM v_achievements
		WHERE %s
		GROUP BY department_name
		ORDER BY total_count DESC`, strings.Join(conditions, " AND "))
	return collect[types.DeptPerformanceRow](ctx, r.storage, query, args...)
}

func (r *DashboardRepository) GetAchievementVelocity(ctx context.Context, filter DashboardFilter) ([]types.VelocityRow, error) {
	where, args := widgetWhere(filter, false)
	query := fmt.Sprintf(`
		SELECT
			employee_name,
			COALESCE(department_name, 'N/A') AS department_name,
			COUNT(*) AS total_count,
			(MAX(created_at)::date - MIN(created_at)::date)::int AS active_days,
			COALESCE(ROUND(
				COUNT(*) * 1.0 / NULLIF(MAX(created_at)::date - MIN(created_at)::date, 0), 2), 0)::float8 AS per_day,
			COALESCE(ROUND(
				SUM(CASE WHEN type = 1 THEN value ELSE 0 END) * 1.0 /
				NULLIF(EXTRACT(YEAR FROM age(MAX(created_at), MIN(created_at))) * 12 +
				       EXTRACT(MONTH FROM age(MAX(created_at), MIN(created_at))), 0), 2), 0)::float8 AS lh_per_month
		FROM v_achievements
		%s
		GROUP BY employee_name, department_name
		HAVING COUNT(*) >= 3
		ORDER BY per_day DESC
		LIMIT 20`, where)
	return collect[types.VelocityRow](ctx, r.storage, query, args...)
}

func (r *DashboardRepository) GetOrganizerEffectiveness(ctx context.Context, filter DashboardFilter) ([]types.OrganizerRow, error) {
	where, args := widgetWhere(filter, false)
	query := fmt.Sprintf(`
		SELECT
			organizer,
			COUNT(*) AS program_count,
			COUNT(DISTINCT topic) AS topic_count,
			COUNT(DISTINCT employee_id) AS participants,
			AVG(value)::float8 AS avg_value,
			COALESCE(AVG(date_end::date - date_start::date), 0)::float8 AS avg_duration_days
		FROM v_achievements
		%s AND organizer IS NOT NULL
		GROUP BY organizer
		HAVING COUNT(*) >= 2
		ORDER BY participants DESC
		LIMIT 15`, where)
	return collect[types.OrganizerRow](ctx, r.storage, query, args...)
}

// GetLegacyDeptStats aggregates per department over date_start within the
// year, the window the first-generation dashboard used.
func (r *DashboardRepository) GetLegacyDeptStats(ctx context.Context, year int) ([]types.LegacyDeptRow, error) {
	query := `
		SELECT
			COALESCE(department_id, '') AS department_id,
			COALESCE(department_name, COALESCE(department_id, '')) AS department_name,
			COALESCE(SUM(CASE WHEN type = 1 THEN value ELSE 0 END), 0) AS learning_hours,
			COALESCE(SUM(CASE WHEN type = 2 THEN 1 ELSE 0 END), 0) AS certifications,
			COUNT(DISTINCT employee_id) AS employee_count
		FROM v_achievements
		WHERE date_start >= make_date($1, 1, 1) AND date_start <= make_date($1, 12, 31)
			AND department_id IS NOT NULL
		GROUP BY department_id, department_name
		ORDER BY department_name`
	return collect[types.LegacyDeptRow](ctx, r.storage, query, year)
}

func (r *DashboardRepository) GetLegacyEmployeeStats(ctx context.Context, year int) ([]types.LegacyEmployeeRow, error) {
	query := `
		SELECT
			employee_id,
			employee_name,
			COALESCE(department_id, '') AS department_name,
			COALESCE(SUM(CASE WHEN type = 1 THEN value ELSE 0 END), 0) AS learning_hours,
			COALESCE(SUM(CASE WHEN type = 2 THEN 1 ELSE 0 END), 0) AS certifications
		FROM v_achievements
		WHERE date_start >= make_date($1, 1, 1) AND date_start <= make_date($1, 12, 31)
		GROUP BY employee_id, employee_name, department_id
		ORDER BY learning_hours DESC`
	return collect[types.LegacyEmployeeRow](ctx, r.storage, query, year)
}
