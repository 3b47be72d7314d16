package entities

import "time"

// Achievement type values.
const (
	AchievementTypeLearningHours = 1
	AchievementTypeCertification = 2
)

type Achievement struct {
	ID         int64      `json:"id" db:"id"`
	Topic      string     `json:"topic" db:"topic"`
	Type       int        `json:"type" db:"type"`
	Value      int        `json:"value" db:"value"`
	Organizer  *string    `json:"organizer" db:"organizer"`
	EmployeeID string     `json:"employee_id" db:"employee_id"`
	DateStart  *time.Time `json:"date_start" db:"date_start"`
	DateEnd    *time.Time `json:"date_end" db:"date_end"`

	// ValidUntil is meaningful only for certifications.
	ValidUntil *time.Time `json:"valid_until" db:"valid_until"`

	InputByName *string   `json:"input_by_name" db:"input_by_name"`
	InputByID   *string   `json:"input_by_id" db:"input_by_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// AchievementWithEmployee is the joined row screens list.
type AchievementWithEmployee struct {
	Achievement
	EmployeeName   string  `json:"employee_name" db:"employee_name"`
	DepartmentID   *string `json:"department_id" db:"department_id"`
	DepartmentName *string `json:"department_name" db:"department_name"`
}
