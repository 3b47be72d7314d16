package types

import "time"

// Row types scanned straight out of the v_achievements widget queries.
// Tags must match the column aliases in the dashboard repository.

type OverviewRow struct {
	Type       int     `db:"achievement_type"`
	TotalCount int64   `db:"total_count"`
	TotalValue float64 `db:"total_value"`
}

// YearTargets is the summed annual target across the selected departments.
type YearTargets struct {
	LearningHours  float64 `db:"learning_hours_target"`
	Certifications float64 `db:"certification_target"`
}

type TrendRow struct {
	Month         string  `db:"month"`
	Type          int     `db:"achievement_type"`
	Count         int64   `db:"total_count"`
	TotalValue    float64 `db:"total_value"`
	MonthlyTarget float64 `db:"monthly_target"`
}

type TopPerformerRow struct {
	Department   string `db:"department_name"`
	EmployeeName string `db:"employee_name"`
	Email        string `db:"email"`
	Position     string `db:"position_name"`
	TotalCount   int64  `db:"total_count"`
	TotalLH      int64  `db:"total_lh"`
	TotalCert    int64  `db:"total_cert"`
}

type DistributionRow struct {
	Department string  `db:"department_name"`
	Type       int     `db:"achievement_type"`
	Count      int64   `db:"total_count"`
	Share      float64 `db:"share"`
}

type ExpiringCertRow struct {
	Topic         string    `db:"topic"`
	EmployeeName  string    `db:"employee_name"`
	Department    string    `db:"department_name"`
	Position      string    `db:"position_name"`
	Email         string    `db:"email"`
	ValidUntil    time.Time `db:"valid_until"`
	DaysRemaining int       `db:"days_remaining"`
}

type ProgramRow struct {
	Topic        string  `db:"topic"`
	Organizer    string  `db:"organizer"`
	Participants int64   `db:"participants"`
	AvgHours     float64 `db:"avg_hours"`
	MinHours     float64 `db:"min_hours"`
	MaxHours     float64 `db:"max_hours"`
	DurationDays int     `db:"duration_days"`
}

type SeasonalRow struct {
	Month      int     `db:"month"`
	Type       int     `db:"achievement_type"`
	Count      int64   `db:"total_count"`
	MonthlyAvg float64 `db:"monthly_avg"`
}

type DeptPerformanceRow struct {
	Department      string  `db:"department_name"`
	TotalCount      int64   `db:"total_count"`
	TotalLH         float64 `db:"total_lh"`
	TotalCert       int64   `db:"total_cert"`
	ActiveEmployees int64   `db:"active_employees"`
	LHTargetPct     float64 `db:"lh_target_pct"`
	CertTargetPct   float64 `db:"cert_target_pct"`
}

type VelocityRow struct {
	EmployeeName string  `db:"employee_name"`
	Department   string  `db:"department_name"`
	TotalCount   int64   `db:"total_count"`
	ActiveDays   int     `db:"active_days"`
	PerDay       float64 `db:"per_day"`
	LHPerMonth   float64 `db:"lh_per_month"`
}

type OrganizerRow struct {
	Organizer       string  `db:"organizer"`
	ProgramCount    int64   `db:"program_count"`
	TopicCount      int64   `db:"topic_count"`
	Participants    int64   `db:"participants"`
	AvgValue        float64 `db:"avg_value"`
	AvgDurationDays float64 `db:"avg_duration_days"`
}

// Rows for the first-generation summary dashboard.

type LegacyDeptRow struct {
	DepartmentID   string `db:"department_id"`
	DepartmentName string `db:"department_name"`
	LearningHours  int64  `db:"learning_hours"`
	Certifications int64  `db:"certifications"`
	EmployeeCount  int64  `db:"employee_count"`
}

type LegacyEmployeeRow struct {
	EmployeeID     string `db:"employee_id"`
	EmployeeName   string `db:"employee_name"`
	Department     string `db:"department_name"`
	LearningHours  int64  `db:"learning_hours"`
	Certifications int64  `db:"certifications"`
}

// RiskDataStats backs the legacy GET /api/dashboard endpoint.
type RiskDataStats struct {
	TotalRecords int64   `db:"total_records"`
	TotalValue   float64 `db:"total_value"`
	AverageValue float64 `db:"average_value"`
	MaxValue     float64 `db:"max_value"`
	MinValue     float64 `db:"min_value"`
}

type ChartPoint struct {
	Name  string  `db:"name"`
	Value float64 `db:"value"`
}
